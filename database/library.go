package database

import (
	"context"
	"fmt"
	"fundry/models"

	"github.com/google/uuid"
)

// Folders and files are written by the document-management side of the
// platform; this service reads them for reporting only.

func (db *DB) ListFolders(ctx context.Context, projectID uuid.UUID) ([]models.Folder, error) {
	query := `
		SELECT id, project_id, name, type, created_at
		FROM folders
		WHERE project_id = $1
		ORDER BY created_at ASC
	`

	rows, err := db.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	defer rows.Close()

	folders := []models.Folder{}
	for rows.Next() {
		var folder models.Folder
		err := rows.Scan(
			&folder.ID,
			&folder.ProjectID,
			&folder.Name,
			&folder.Type,
			&folder.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan folder: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating folders: %w", err)
	}

	return folders, nil
}

func (db *DB) ListFiles(ctx context.Context, folderID uuid.UUID) ([]models.File, error) {
	query := `
		SELECT id, folder_id, file_name, uploaded_by, uploaded_at
		FROM files
		WHERE folder_id = $1
		ORDER BY uploaded_at ASC
	`

	rows, err := db.Pool.Query(ctx, query, folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	files := []models.File{}
	for rows.Next() {
		var file models.File
		err := rows.Scan(
			&file.ID,
			&file.FolderID,
			&file.FileName,
			&file.UploadedBy,
			&file.UploadedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating files: %w", err)
	}

	return files, nil
}

// InsertFolder and InsertFile exist for test fixtures and data import;
// the HTTP surface never exposes them.

func (db *DB) InsertFolder(ctx context.Context, folder models.Folder) (uuid.UUID, error) {
	query := `
		INSERT INTO folders (project_id, name, type)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id uuid.UUID
	if err := db.Pool.QueryRow(ctx, query, folder.ProjectID, folder.Name, folder.Type).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert folder: %w", err)
	}
	return id, nil
}

func (db *DB) InsertFile(ctx context.Context, file models.File) (uuid.UUID, error) {
	query := `
		INSERT INTO files (folder_id, file_name, uploaded_by, uploaded_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id uuid.UUID
	if err := db.Pool.QueryRow(ctx, query, file.FolderID, file.FileName, file.UploadedBy, file.UploadedAt).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert file: %w", err)
	}
	return id, nil
}
