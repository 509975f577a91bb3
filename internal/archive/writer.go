package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"encoding/json"

	"github.com/klauspost/compress/gzip"

	"github.com/ttakei/newsarc/internal/record"
)

// Writer side of the archive, used by the collector to publish under a
// local data root with the same layout the loader consumes.

func partitionFile(root, key string) string {
	return filepath.Join(root, "archive", key[:4], key+".ndjson.gz")
}

// WritePartition writes a month partition atomically (tmp then rename).
func WritePartition(root, key string, records []record.Record) error {
	if !ValidKey(key) {
		return fmt.Errorf("invalid partition key %q", key)
	}
	path := partitionFile(root, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	zw := gzip.NewWriter(f)
	if err := EncodeRecords(zw, records); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := zw.Close(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// ReadPartition reads a month partition from the local root. A missing
// partition is an empty one.
func ReadPartition(root, key string) ([]record.Record, error) {
	if !ValidKey(key) {
		return nil, fmt.Errorf("invalid partition key %q", key)
	}
	f, err := os.Open(partitionFile(root, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("reading partition %s: %w", key, err)
	}
	defer zr.Close()
	return DecodeRecords(zr)
}

// ListMonths scans the local archive tree for existing partition keys,
// ascending.
func ListMonths(root string) ([]string, error) {
	yearDirs, err := filepath.Glob(filepath.Join(root, "archive", "[0-9][0-9][0-9][0-9]"))
	if err != nil {
		return nil, err
	}
	var months []string
	for _, yd := range yearDirs {
		files, err := filepath.Glob(filepath.Join(yd, "*.ndjson.gz"))
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			key := filepath.Base(f)
			key = key[:len(key)-len(".ndjson.gz")]
			if ValidKey(key) {
				months = append(months, key)
			}
		}
	}
	sort.Strings(months)
	return months, nil
}

// WriteIndex publishes the partition directory for the given months.
func WriteIndex(root string, months []string, keepYears, latestMonths int, now time.Time) error {
	ix := Index{
		GeneratedAt:         now.Format(time.RFC3339),
		KeepYears:           keepYears,
		LatestMonths:        latestMonths,
		Months:              months,
		ArchivePathTemplate: defaultPathTemplate,
	}
	if len(months) > 0 {
		ix.MinMonth = months[0]
		ix.MaxMonth = months[len(months)-1]
	}

	path := filepath.Join(root, filepath.FromSlash(IndexPath))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(&ix, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// WriteLatest publishes the hot dataset as plain NDJSON (uncompressed,
// so a plain fetch can stream it).
func WriteLatest(root string, records []record.Record) error {
	path := filepath.Join(root, filepath.FromSlash(HotPath))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := EncodeRecords(f, records); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// PruneMonths deletes partitions older than the rolling keep-years
// window and cleans up empty year directories. Returns the deleted
// keys.
func PruneMonths(root string, keepYears int, now time.Time, loc *time.Location) ([]string, error) {
	if keepYears <= 0 {
		return nil, nil
	}
	months, err := ListMonths(root)
	if err != nil {
		return nil, err
	}
	cut := now.In(loc).AddDate(-keepYears, 0, 0)
	cutoff := time.Date(cut.Year(), cut.Month(), 1, 0, 0, 0, 0, loc)

	var deleted []string
	for _, key := range months {
		start, ok := monthStart(key, loc)
		if !ok || !start.Before(cutoff) {
			continue
		}
		if err := os.Remove(partitionFile(root, key)); err != nil && !os.IsNotExist(err) {
			return deleted, err
		}
		deleted = append(deleted, key)
	}

	yearDirs, _ := filepath.Glob(filepath.Join(root, "archive", "[0-9][0-9][0-9][0-9]"))
	for _, yd := range yearDirs {
		entries, err := os.ReadDir(yd)
		if err == nil && len(entries) == 0 {
			os.Remove(yd)
		}
	}
	return deleted, nil
}
