package holidays

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Default returns the built-in table of recurring observances.
func Default() Data {
	return Data{
		Everyyear: Table{
			"01-01": {Name: "Islamic New Year", Holiday: true},
			"01-10": {Name: "Ashura"},
			"03-12": {Name: "Mawlid al-Nabi"},
			"07-27": {Name: "Isra and Mi'raj"},
			"08-15": {Name: "Mid-Sha'ban"},
			"09-01": {Name: "First of Ramadan"},
			"09-27": {Name: "Laylat al-Qadr"},
			"10-01": {Name: "Eid al-Fitr", Holiday: true},
			"10-02": {Name: "Eid al-Fitr", Holiday: true},
			"10-03": {Name: "Eid al-Fitr", Holiday: true},
			"12-09": {Name: "Day of Arafah"},
			"12-10": {Name: "Eid al-Adha", Holiday: true},
			"12-11": {Name: "Days of Tashriq", Holiday: true},
			"12-12": {Name: "Days of Tashriq", Holiday: true},
			"12-13": {Name: "Days of Tashriq", Holiday: true},
		},
	}
}

// Parse decodes observances JSON.
func Parse(raw []byte) (Data, error) {
	var file fileFormat
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse observances JSON: %w", err)
	}
	result := make(Data, len(file))
	for _, year := range file {
		result[year.Year] = year.Observances
	}
	return result, nil
}

// LoadFromFile loads observances from a JSON file.
func LoadFromFile(path string) (Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read observances file: %w", err)
	}
	return Parse(raw)
}

// GetCachePath returns the path of the observances cache file in the user
// cache directory.
func GetCachePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to get cache directory: %w", err)
	}
	return filepath.Join(cacheDir, "hijri", "observances.json"), nil
}

// ErrNoCache is returned by LoadFromCache when the cache file is missing or
// older than six months.
var ErrNoCache = errors.New("no fresh observances cache")

// LoadFromCache loads observances from the cache directory, returning the
// cache path alongside the data.
func LoadFromCache() (Data, string, error) {
	cachePath, err := GetCachePath()
	if err != nil {
		return nil, "", err
	}
	valid, err := IsCacheValid(cachePath)
	if err != nil {
		return nil, cachePath, err
	}
	if !valid {
		return nil, cachePath, ErrNoCache
	}
	data, err := LoadFromFile(cachePath)
	return data, cachePath, err
}

// IsCacheValid checks if the cache file exists and is not older than 6 months.
func IsCacheValid(cachePath string) (bool, error) {
	info, err := os.Stat(cachePath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	sixMonthsAgo := time.Now().AddDate(0, -6, 0)
	return info.ModTime().After(sixMonthsAgo), nil
}

// Merge overlays other onto d, entry by entry, and returns d.
func (d Data) Merge(other Data) Data {
	if d == nil {
		d = Data{}
	}
	for year, table := range other {
		if d[year] == nil {
			d[year] = Table{}
		}
		for date, o := range table {
			d[year][date] = o
		}
	}
	return d
}

// Lookup returns the observance on the given Hijri date, or nil.
func Lookup(data Data, year, month, day int) *Info {
	if data == nil {
		return nil
	}
	date := fmt.Sprintf("%02d-%02d", month, day)
	for _, key := range []string{fmt.Sprintf("%d", year), Everyyear} {
		if entry, ok := data[key][date]; ok && entry != nil {
			return &Info{Name: entry.Name, Holiday: entry.Holiday}
		}
	}
	return nil
}
