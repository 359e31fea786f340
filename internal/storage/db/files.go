package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hd2mm/internal/domain"

	"github.com/google/uuid"
)

// Deployment is one run of the deploy write step
type Deployment struct {
	ID          int64
	ProfileName string
	LinkMethod  domain.LinkMethod
	DeployedAt  time.Time
}

// DeployedFile is a patch file placed in the data directory
type DeployedFile struct {
	FileName   string // Name inside the data directory
	Hash       string
	Index      int
	Role       domain.PatchRole
	ModGUID    uuid.UUID
	SourcePath string // File in the mod store it was placed from
}

// BeginDeployment records a new deployment and returns its ID.
func (d *DB) BeginDeployment(profileName string, method domain.LinkMethod) (int64, error) {
	res, err := d.Exec(`
		INSERT INTO deployments (profile_name, link_method, deployed_at) VALUES (?, ?, ?)
	`, profileName, int(method), time.Now())
	if err != nil {
		return 0, fmt.Errorf("saving deployment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading deployment id: %w", err)
	}
	return id, nil
}

// SaveDeployedFile records that f was placed by deployment deploymentID.
// A later deployment of the same file name takes ownership of the row.
func (d *DB) SaveDeployedFile(deploymentID int64, f DeployedFile) error {
	_, err := d.Exec(`
		INSERT INTO deployed_files (file_name, deployment_id, hash, patch_index, role, mod_guid, source_path)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_name) DO UPDATE SET
			deployment_id = excluded.deployment_id,
			hash = excluded.hash,
			patch_index = excluded.patch_index,
			role = excluded.role,
			mod_guid = excluded.mod_guid,
			source_path = excluded.source_path
	`, f.FileName, deploymentID, f.Hash, f.Index, int(f.Role), f.ModGUID.String(), f.SourcePath)
	if err != nil {
		return fmt.Errorf("saving deployed file: %w", err)
	}
	return nil
}

// LastDeployment returns the most recent deployment, or nil if there is none.
func (d *DB) LastDeployment() (*Deployment, error) {
	var dep Deployment
	var method int
	err := d.QueryRow(`
		SELECT id, profile_name, link_method, deployed_at FROM deployments
		ORDER BY id DESC LIMIT 1
	`).Scan(&dep.ID, &dep.ProfileName, &method, &dep.DeployedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting last deployment: %w", err)
	}
	dep.LinkMethod = domain.LinkMethod(method)
	return &dep, nil
}

// DeployedFiles returns every recorded file ordered by hash, index and role.
func (d *DB) DeployedFiles() ([]DeployedFile, error) {
	rows, err := d.Query(`
		SELECT file_name, hash, patch_index, role, mod_guid, source_path FROM deployed_files
		ORDER BY hash, patch_index, role
	`)
	if err != nil {
		return nil, fmt.Errorf("querying deployed files: %w", err)
	}
	defer rows.Close()

	var files []DeployedFile
	for rows.Next() {
		f, err := scanDeployedFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// GetFileOwner returns the record for a file name in the data directory, or nil.
func (d *DB) GetFileOwner(fileName string) (*DeployedFile, error) {
	row := d.QueryRow(`
		SELECT file_name, hash, patch_index, role, mod_guid, source_path FROM deployed_files
		WHERE file_name = ?
	`, fileName)
	f, err := scanDeployedFile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

// ClearDeployedFiles forgets every deployed file. Deployment history is kept.
func (d *DB) ClearDeployedFiles() error {
	if _, err := d.Exec(`DELETE FROM deployed_files`); err != nil {
		return fmt.Errorf("clearing deployed files: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDeployedFile(s scanner) (DeployedFile, error) {
	var f DeployedFile
	var role int
	var guid string
	if err := s.Scan(&f.FileName, &f.Hash, &f.Index, &role, &guid, &f.SourcePath); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return f, err
		}
		return f, fmt.Errorf("scanning deployed file: %w", err)
	}
	f.Role = domain.PatchRole(role)
	id, err := uuid.Parse(guid)
	if err != nil {
		return f, fmt.Errorf("parsing mod guid %q: %w", guid, err)
	}
	f.ModGUID = id
	return f, nil
}
