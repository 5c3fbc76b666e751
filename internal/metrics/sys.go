package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

var startedAt = time.Now()

// DataStore names a file or directory whose size is reported in SysHealth.
type DataStore struct {
	Name string
	Path string
}

// StoreUsage is the on-disk footprint of one DataStore.
type StoreUsage struct {
	Name  string `json:"name"`
	Bytes int64  `json:"bytes"`
	Size  string `json:"size"`
}

// SysHealth is a snapshot of the running process and its data stores.
type SysHealth struct {
	AllocMB       uint64       `json:"allocMB"`
	SysMB         uint64       `json:"sysMB"`
	NumGC         uint32       `json:"numGC"`
	Goroutines    int          `json:"goroutines"`
	Uptime        string       `json:"uptime"`
	SchemaVersion uint         `json:"schemaVersion"`
	Stores        []StoreUsage `json:"stores"`
	DataDiskSize  string       `json:"dataDiskSize"`
}

// GetSysHealth reads the runtime memory stats and sizes every store.
// DataDiskSize is the total across stores.
func GetSysHealth(stores ...DataStore) SysHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	h := SysHealth{
		AllocMB:    m.Alloc >> 20,
		SysMB:      m.Sys >> 20,
		NumGC:      m.NumGC,
		Goroutines: runtime.NumGoroutine(),
		Uptime:     time.Since(startedAt).Truncate(time.Second).String(),
		Stores:     make([]StoreUsage, 0, len(stores)),
	}

	var total int64
	for _, s := range stores {
		n := pathSize(s.Path)
		total += n
		h.Stores = append(h.Stores, StoreUsage{Name: s.Name, Bytes: n, Size: formatBytes(n)})
	}
	h.DataDiskSize = formatBytes(total)
	return h
}

// pathSize sums regular files under path. Missing paths count as zero.
func pathSize(path string) int64 {
	var size int64
	_ = filepath.WalkDir(path, func(_ string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			size += info.Size()
		}
		return nil
	})
	return size
}

func formatBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
