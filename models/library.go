package models

import (
	"time"

	"github.com/google/uuid"
)

// Folder groups uploaded files under a project. Folders and files are
// written by the document-management side of the platform; this service
// only reads them for reporting.
type Folder struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// File is a single uploaded document inside a folder.
type File struct {
	ID         uuid.UUID `json:"id"`
	FolderID   uuid.UUID `json:"folder_id"`
	FileName   string    `json:"file_name"`
	UploadedBy uuid.UUID `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
}
