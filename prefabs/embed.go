package prefabs

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml
var PrefabsFS embed.FS

var (
	dirMu sync.RWMutex
	dir   = "prefabs"
)

// SetDir sets the on-disk directory whose files override the embedded
// prefabs. An empty dir disables the override.
func SetDir(d string) {
	dirMu.Lock()
	defer dirMu.Unlock()
	dir = d
}

// Dir returns the on-disk override directory.
func Dir() string {
	dirMu.RLock()
	defer dirMu.RUnlock()
	return dir
}

func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if clean == "" {
		return nil, fmt.Errorf("prefabs: empty script name")
	}
	if data, err := readDisk(clean); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

func Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if data, err := readDisk(clean); err == nil {
		return data, nil
	}
	return PrefabsFS.ReadFile(clean)
}

func readDisk(clean string) ([]byte, error) {
	d := Dir()
	if d == "" {
		return nil, os.ErrNotExist
	}
	return os.ReadFile(filepath.Join(d, filepath.FromSlash(clean)))
}

func cleanPrefabPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if strings.HasPrefix(s, "prefabs/") {
		return strings.TrimPrefix(s, "prefabs/")
	}
	return s
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}

	s := filepath.ToSlash(path)

	if after, ok := strings.CutPrefix(s, "prefabs/scripts/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}

	if !strings.HasSuffix(s, ".tengo") {
		s += ".tengo"
	}

	return fmt.Sprintf("scripts/%s", s)
}
