// Package backup keeps copies of network-script files before iftool
// replaces them, and restores them on request.
package backup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/cameronsjo/iftool/internal/fileutil"
)

const (
	// Prefix is the prefix for backup directory names.
	Prefix = "backup-"
	// DateFormat is the timestamp format used in backup names.
	DateFormat = "20060102-150405.000000000"
	// MaxBackups is the number of backups retained.
	MaxBackups = 20
	// ManifestFile describes the backup's contents.
	ManifestFile = "backup.yaml"
	// filesDir holds the copied files inside a backup.
	filesDir = "files"
)

// ErrNotFound indicates the named backup does not exist.
var ErrNotFound = errors.New("backup not found")

var now = time.Now

// Manifest records where a backup's files came from.
type Manifest struct {
	// Destination is the directory the files were copied from.
	Destination string `yaml:"destination"`

	// Created is when the backup was taken.
	Created time.Time `yaml:"created"`

	// Files are paths relative to Destination.
	Files []string `yaml:"files"`
}

// Info describes a backup on disk.
type Info struct {
	Name string
	Path string
	Manifest
}

// Dir returns the directory holding backups.
func Dir(stateDir string) string {
	return filepath.Join(stateDir, "backups")
}

// Create copies the existing files among paths into a new backup. Paths
// must lie inside destination; paths that do not exist are skipped. Returns
// the backup name, or an empty string if there was nothing to back up.
func Create(stateDir, destination string, paths []string) (string, error) {
	var files []string
	for _, path := range paths {
		if _, err := os.Lstat(path); os.IsNotExist(err) {
			continue
		}
		rel, err := filepath.Rel(destination, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return "", fmt.Errorf("%s is outside %s", path, destination)
		}
		files = append(files, rel)
	}
	if len(files) == 0 {
		return "", nil
	}
	sort.Strings(files)

	created := now()
	name := Prefix + created.Format(DateFormat) + "-" + uuid.New().String()[:8]
	backupPath := filepath.Join(Dir(stateDir), name)

	for _, rel := range files {
		dst := filepath.Join(backupPath, filesDir, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			os.RemoveAll(backupPath)
			return "", fmt.Errorf("create backup directory: %w", err)
		}
		if err := fileutil.CopyFile(filepath.Join(destination, rel), dst); err != nil {
			os.RemoveAll(backupPath)
			return "", fmt.Errorf("copy %s: %w", rel, err)
		}
	}

	m := Manifest{Destination: destination, Created: created, Files: files}
	data, err := yaml.Marshal(&m)
	if err != nil {
		os.RemoveAll(backupPath)
		return "", fmt.Errorf("marshal backup manifest: %w", err)
	}
	if err := fileutil.WriteFile(filepath.Join(backupPath, ManifestFile), data, 0644); err != nil {
		os.RemoveAll(backupPath)
		return "", fmt.Errorf("write backup manifest: %w", err)
	}

	if err := Cleanup(stateDir); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to cleanup old backups: %v\n", err)
	}

	return name, nil
}

// List returns available backups, newest first. Directories without a
// readable manifest are skipped.
func List(stateDir string) ([]Info, error) {
	entries, err := os.ReadDir(Dir(stateDir))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backups directory: %w", err)
	}

	var backups []Info
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), Prefix) {
			continue
		}

		path := filepath.Join(Dir(stateDir), entry.Name())
		m, err := readManifest(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: cannot read backup %s: %v\n", entry.Name(), err)
			continue
		}
		backups = append(backups, Info{Name: entry.Name(), Path: path, Manifest: *m})
	}

	sort.Slice(backups, func(i, j int) bool {
		if backups[i].Created.Equal(backups[j].Created) {
			return backups[i].Name > backups[j].Name
		}
		return backups[i].Created.After(backups[j].Created)
	})
	return backups, nil
}

// Restore copies the files of the named backup back into the destination
// they came from and returns its manifest.
func Restore(stateDir, name string) (*Manifest, error) {
	if name != filepath.Base(name) || !strings.HasPrefix(name, Prefix) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	path := filepath.Join(Dir(stateDir), name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	m, err := readManifest(path)
	if err != nil {
		return nil, err
	}

	for _, rel := range m.Files {
		dst := filepath.Join(m.Destination, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return nil, fmt.Errorf("create %s: %w", filepath.Dir(dst), err)
		}
		if err := fileutil.CopyFile(filepath.Join(path, filesDir, rel), dst); err != nil {
			return nil, fmt.Errorf("restore %s: %w", rel, err)
		}
	}
	return m, nil
}

// Cleanup removes backups beyond MaxBackups, oldest first.
func Cleanup(stateDir string) error {
	backups, err := List(stateDir)
	if err != nil {
		return err
	}
	if len(backups) <= MaxBackups {
		return nil
	}

	var errs []string
	for _, b := range backups[MaxBackups:] {
		if err := os.RemoveAll(b.Path); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", b.Name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to remove %d backup(s): %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}

func readManifest(backupPath string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(backupPath, ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("read backup manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse backup manifest: %w", err)
	}
	return &m, nil
}
