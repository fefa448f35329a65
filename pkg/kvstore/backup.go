package kvstore

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/fystack/storable/pkg/common/pathutil"
	"github.com/fystack/storable/pkg/logger"
)

const (
	backupMagic      = "STORABLE_BACKUP"
	versionFileName  = "latest.version"
	defaultBackupDir = "./backups"
	maxBackupMetaLen = 1 << 20 // 1MB
)

var ErrBackupCorrupted = errors.New("backup file corrupted")

type BackupMeta struct {
	Checksum  string `json:"checksum"`   // hex sha256 of the payload
	CreatedAt string `json:"created_at"` // RFC3339
	Since     uint64 `json:"since"`      // input watermark
	NextSince uint64 `json:"next_since"` // output watermark
}

type BackupVersionInfo struct {
	Version   uint64 `json:"version"`    // human-readable counter
	Since     uint64 `json:"since"`      // badger internal backup offset
	UpdatedAt string `json:"updated_at"` // RFC3339
}

// BackupExecutor writes incremental backups of a BadgerDB into BackupDir. Each
// run only captures entries changed since the previous one.
type BackupExecutor struct {
	Name      string
	DB        *badger.DB
	BackupDir string
}

// NewBackupExecutor creates a new backup executor. If backupDir is empty, uses ./backups
func NewBackupExecutor(name string, db *badger.DB, backupDir string) (*BackupExecutor, error) {
	if backupDir == "" {
		backupDir = defaultBackupDir
	}
	if err := os.MkdirAll(backupDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}
	return &BackupExecutor{
		Name:      name,
		DB:        db,
		BackupDir: backupDir,
	}, nil
}

// Execute writes one incremental backup. It returns the written path, or ""
// when nothing changed since the last run.
func (b *BackupExecutor) Execute() (string, error) {
	info, err := b.LoadVersionInfo()
	if err != nil {
		return "", fmt.Errorf("failed to load version info: %w", err)
	}

	since := info.Since
	version := info.Version + 1
	now := time.Now()

	var payload bytes.Buffer
	nextSince, err := b.DB.Backup(&payload, since)
	if err != nil {
		return "", err
	}

	if payload.Len() == 0 || nextSince == since {
		logger.Info("No changes since last backup, skipping", "dir", b.BackupDir)
		return "", nil
	}

	sum := sha256.Sum256(payload.Bytes())
	meta := BackupMeta{
		Checksum:  hex.EncodeToString(sum[:]),
		CreatedAt: now.Format(time.RFC3339),
		Since:     since,
		NextSince: nextSince,
	}

	// zero-padded version keeps lexical order equal to apply order
	filename := fmt.Sprintf("backup-%s-%08d-%s.bak", b.Name, version, now.Format("2006-01-02_15-04-05"))
	outPath, err := pathutil.SafePath(b.BackupDir, filename)
	if err != nil {
		return "", err
	}
	if err := writeBackupFile(outPath, meta, payload.Bytes()); err != nil {
		return "", err
	}

	logger.Info("Backup written", "file", filename, "version", version)
	if err := b.SaveVersionInfo(version, nextSince); err != nil {
		logger.Warn("Failed to save latest.version", "error", err.Error())
	}

	return outPath, nil
}

func writeBackupFile(path string, meta BackupMeta, payload []byte) error {
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write([]byte(backupMagic)); err != nil {
		return err
	}
	if err := binary.Write(f, binary.BigEndian, uint32(len(metaJSON))); err != nil {
		return err
	}
	if _, err := f.Write(metaJSON); err != nil {
		return err
	}
	_, err = f.Write(payload)
	return err
}

func (b *BackupExecutor) SaveVersionInfo(version, since uint64) error {
	info := BackupVersionInfo{
		Version:   version,
		Since:     since,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(info)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(b.BackupDir, versionFileName), data, 0600)
}

func (b *BackupExecutor) LoadVersionInfo() (BackupVersionInfo, error) {
	var info BackupVersionInfo
	data, err := os.ReadFile(filepath.Join(b.BackupDir, versionFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return BackupVersionInfo{UpdatedAt: time.Now().Format(time.RFC3339)}, nil
		}
		return info, err
	}
	err = json.Unmarshal(data, &info)
	return info, err
}

func (b *BackupExecutor) SortedBackups() []string {
	files, _ := filepath.Glob(filepath.Join(b.BackupDir, "backup-*.bak"))
	sort.Strings(files)
	return files
}

// RestoreAll replays every backup in BackupDir, oldest first, into a fresh
// BadgerDB at restorePath. encryptionKey, if set, encrypts the restored db.
func (b *BackupExecutor) RestoreAll(restorePath string, encryptionKey []byte) error {
	if err := os.MkdirAll(restorePath, 0755); err != nil {
		return fmt.Errorf("failed to create restore directory: %w", err)
	}

	store, err := NewBadgerKVStore(restorePath, encryptionKey)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, file := range b.SortedBackups() {
		logger.Info("Restoring backup", "file", file)
		if err := loadBackupFile(store.DB(), file); err != nil {
			return fmt.Errorf("restore %s: %w", filepath.Base(file), err)
		}
	}

	logger.Info("Restore complete", "path", restorePath)
	return nil
}

func loadBackupFile(db *badger.DB, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	magicBuf := make([]byte, len(backupMagic))
	if _, err := io.ReadFull(f, magicBuf); err != nil {
		return err
	}
	if string(magicBuf) != backupMagic {
		return fmt.Errorf("%w: bad magic", ErrBackupCorrupted)
	}

	var metaLen uint32
	if err := binary.Read(f, binary.BigEndian, &metaLen); err != nil {
		return err
	}
	if metaLen > maxBackupMetaLen {
		return fmt.Errorf("%w: metadata length %d exceeds limit", ErrBackupCorrupted, metaLen)
	}
	metaBuf := make([]byte, metaLen)
	if _, err := io.ReadFull(f, metaBuf); err != nil {
		return err
	}
	var meta BackupMeta
	if err := json.Unmarshal(metaBuf, &meta); err != nil {
		return err
	}

	payload, err := io.ReadAll(f)
	if err != nil {
		return err
	}
	sum := sha256.Sum256(payload)
	if hex.EncodeToString(sum[:]) != meta.Checksum {
		return fmt.Errorf("%w: checksum mismatch", ErrBackupCorrupted)
	}

	return db.Load(bytes.NewReader(payload), 10)
}
