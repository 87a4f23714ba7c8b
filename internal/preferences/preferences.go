// Package preferences persists the default exclusion sets between runs.
package preferences

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/oserror"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/temirov/dirtree/internal/utils"
)

const (
	// ExcludeDirsKey names the persisted directory exclusion set.
	ExcludeDirsKey = "EXCLUDE_DIRS"
	// ExcludeFilesKey names the persisted file pattern exclusion set.
	ExcludeFilesKey = "EXCLUDE_FILES"

	storeConfigType   = "json"
	storeIndent       = "    "
	storeFileMode     = 0o644
	storeDirectoryMode = 0o755

	corruptStoreMessage = "preferences unreadable, using defaults"
)

var (
	// ErrPreferencesCorrupt marks a store that exists but cannot be decoded.
	ErrPreferencesCorrupt = errors.New("preferences corrupt")
	// ErrPreferencesWriteFailed marks a store that could not be written.
	ErrPreferencesWriteFailed = errors.New("preferences write failed")
)

// DefaultExcludeDirs lists the directory names hidden when no store exists.
func DefaultExcludeDirs() []string {
	return []string{"venv", "env", "node_modules", "dist", ".idea", ".expo", utils.GitDirectoryName, "__pycache__"}
}

// DefaultExcludeFiles lists the file patterns hidden when no store exists.
func DefaultExcludeFiles() []string {
	return []string{"LICENSE", utils.PreferencesFileName}
}

// Record holds the two persisted exclusion sets.
type Record struct {
	ExcludeDirs  map[string]struct{}
	ExcludeFiles map[string]struct{}
}

// DefaultRecord returns a fresh record holding the built-in defaults.
func DefaultRecord() Record {
	return NewRecord(DefaultExcludeDirs(), DefaultExcludeFiles())
}

// NewRecord builds a record from the given members.
func NewRecord(excludeDirs []string, excludeFiles []string) Record {
	record := Record{
		ExcludeDirs:  make(map[string]struct{}, len(excludeDirs)),
		ExcludeFiles: make(map[string]struct{}, len(excludeFiles)),
	}
	addAll(record.ExcludeDirs, excludeDirs)
	addAll(record.ExcludeFiles, excludeFiles)
	return record
}

// Update adds the given names and patterns to the record.
func (record Record) Update(addDirs []string, addFiles []string) {
	addAll(record.ExcludeDirs, addDirs)
	addAll(record.ExcludeFiles, addFiles)
}

// IncludeBack removes the given names and patterns from the record.
func (record Record) IncludeBack(removeDirs []string, removeFiles []string) {
	for _, name := range removeDirs {
		delete(record.ExcludeDirs, name)
	}
	for _, pattern := range removeFiles {
		delete(record.ExcludeFiles, pattern)
	}
}

// Clone returns an independent copy of the record.
func (record Record) Clone() Record {
	return NewRecord(record.Dirs(), record.Files())
}

// Dirs returns the directory set in ascending order.
func (record Record) Dirs() []string {
	return utils.SortedKeys(record.ExcludeDirs)
}

// Files returns the file pattern set in ascending order.
func (record Record) Files() []string {
	return utils.SortedKeys(record.ExcludeFiles)
}

func addAll(set map[string]struct{}, members []string) {
	for _, member := range members {
		if member == "" {
			continue
		}
		set[member] = struct{}{}
	}
}

// Store reads and writes a Record as a JSON document.
type Store struct {
	fileSystem afero.Fs
	path       string
	logger     *zap.Logger
}

// NewStore creates a store backed by path on fileSystem. A nil fileSystem
// selects the OS filesystem and a nil logger discards messages.
func NewStore(fileSystem afero.Fs, path string, logger *zap.Logger) *Store {
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{fileSystem: fileSystem, path: path, logger: logger}
}

// Path reports the location of the store.
func (store *Store) Path() string {
	return store.path
}

// Load returns the persisted record. A missing store yields the defaults; an
// unreadable one is logged and also yields the defaults.
func (store *Store) Load() Record {
	record, loadError := store.read()
	if loadError != nil {
		if !errors.Is(loadError, os.ErrNotExist) {
			store.logger.Warn(corruptStoreMessage, zap.String("path", store.path), zap.Error(loadError))
		}
		return DefaultRecord()
	}
	return record
}

func (store *Store) read() (Record, error) {
	if _, statError := store.fileSystem.Stat(store.path); statError != nil {
		if oserror.IsNotExist(statError) {
			return Record{}, os.ErrNotExist
		}
		return Record{}, errors.Mark(errors.Wrapf(statError, "inspect preferences %s", store.path), ErrPreferencesCorrupt)
	}
	reader := viper.New()
	reader.SetFs(store.fileSystem)
	reader.SetConfigFile(store.path)
	reader.SetConfigType(storeConfigType)
	if readError := reader.ReadInConfig(); readError != nil {
		return Record{}, errors.Mark(errors.Wrapf(readError, "read preferences %s", store.path), ErrPreferencesCorrupt)
	}
	excludeDirs, dirsError := readSet(reader, ExcludeDirsKey, DefaultExcludeDirs())
	if dirsError != nil {
		return Record{}, errors.Mark(errors.Wrapf(dirsError, "decode preferences %s", store.path), ErrPreferencesCorrupt)
	}
	excludeFiles, filesError := readSet(reader, ExcludeFilesKey, DefaultExcludeFiles())
	if filesError != nil {
		return Record{}, errors.Mark(errors.Wrapf(filesError, "decode preferences %s", store.path), ErrPreferencesCorrupt)
	}
	return NewRecord(excludeDirs, excludeFiles), nil
}

func readSet(reader *viper.Viper, key string, defaults []string) ([]string, error) {
	if !reader.IsSet(key) {
		return defaults, nil
	}
	rawMembers, isList := reader.Get(key).([]interface{})
	if !isList {
		return nil, errors.Newf("key %s is not a list", key)
	}
	members := make([]string, 0, len(rawMembers))
	for _, rawMember := range rawMembers {
		member, isString := rawMember.(string)
		if !isString {
			return nil, errors.Newf("key %s holds a non-string member %v", key, rawMember)
		}
		members = append(members, member)
	}
	return members, nil
}

type storedRecord struct {
	ExcludeDirs  []string `json:"EXCLUDE_DIRS"`
	ExcludeFiles []string `json:"EXCLUDE_FILES"`
}

// Save writes the record, creating parent directories as needed.
func (store *Store) Save(record Record) error {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", storeIndent)
	if encodeError := encoder.Encode(storedRecord{ExcludeDirs: record.Dirs(), ExcludeFiles: record.Files()}); encodeError != nil {
		return errors.Mark(errors.Wrap(encodeError, "encode preferences"), ErrPreferencesWriteFailed)
	}
	parentDirectory := filepath.Dir(store.path)
	if mkdirError := store.fileSystem.MkdirAll(parentDirectory, storeDirectoryMode); mkdirError != nil {
		return errors.Mark(errors.Wrapf(mkdirError, "create preferences directory %s", parentDirectory), ErrPreferencesWriteFailed)
	}
	if writeError := afero.WriteFile(store.fileSystem, store.path, buffer.Bytes(), storeFileMode); writeError != nil {
		return errors.Mark(errors.Wrapf(writeError, "write preferences %s", store.path), ErrPreferencesWriteFailed)
	}
	return nil
}
