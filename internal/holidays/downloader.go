package holidays

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type downloadProgressMsg struct {
	bytesDownloaded int64
	totalBytes      int64
	speed           float64
}

type downloadCompleteMsg struct {
	fileSize int64
	modTime  time.Time
	filePath string
	yearInfo *YearInfo
	err      error
}

// YearInfo summarises the year-specific entries of downloaded observances.
type YearInfo struct {
	MinYear int // Earliest Hijri year
	MaxYear int // Latest Hijri year
	Count   int // Number of years
}

type downloadModel struct {
	url        string
	destPath   string
	downloaded int64
	total      int64
	speed      float64
	done       bool
	err        error
	fileSize   int64
	modTime    time.Time
	filePath   string
	yearInfo   *YearInfo
	progressCh chan downloadProgressMsg
	completeCh chan downloadCompleteMsg
	waitingKey bool
}

func newDownloadModel(url, destPath string) downloadModel {
	return downloadModel{
		url:        url,
		destPath:   destPath,
		progressCh: make(chan downloadProgressMsg, 10),
		completeCh: make(chan downloadCompleteMsg, 1),
	}
}

func (m downloadModel) Init() tea.Cmd {
	return tea.Batch(
		m.startDownload,
		m.listenProgress,
	)
}

func (m downloadModel) listenProgress() tea.Msg {
	select {
	case msg := <-m.progressCh:
		return msg
	case msg := <-m.completeCh:
		return msg
	}
}

func (m downloadModel) startDownload() tea.Msg {
	go func() {
		var downloaded, total int64
		start := time.Now()
		done := make(chan struct{})
		defer close(done)

		go func() {
			ticker := time.NewTicker(100 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
				}
				n := atomic.LoadInt64(&downloaded)
				if n == 0 {
					continue
				}
				select {
				case m.progressCh <- downloadProgressMsg{
					bytesDownloaded: n,
					totalBytes:      atomic.LoadInt64(&total),
					speed:           float64(n) / time.Since(start).Seconds(),
				}:
				default:
					// channel full, drop this update
				}
			}
		}()

		err := Download(context.Background(), http.DefaultClient, m.url, m.destPath, func(n, t int64) {
			atomic.StoreInt64(&downloaded, n)
			atomic.StoreInt64(&total, t)
		})
		if err != nil {
			m.completeCh <- downloadCompleteMsg{err: err}
			return
		}
		info, err := os.Stat(m.destPath)
		if err != nil {
			m.completeCh <- downloadCompleteMsg{err: fmt.Errorf("failed to stat file: %w", err)}
			return
		}
		// year info is informational only
		yearInfo, _ := extractYearInfo(m.destPath)
		m.completeCh <- downloadCompleteMsg{
			fileSize: info.Size(),
			modTime:  info.ModTime(),
			filePath: m.destPath,
			yearInfo: yearInfo,
		}
	}()
	return nil
}

// Download fetches url into destPath, creating its directory. The body must
// parse as observances JSON, otherwise destPath is left untouched. progress,
// if not nil, is called with the bytes read so far and the expected total
// (-1 when unknown).
func Download(ctx context.Context, client *http.Client, url, destPath string, progress func(downloaded, total int64)) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to start download: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to start download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("HTTP %s", resp.Status)
	}

	var read int64
	body, err := io.ReadAll(io.TeeReader(resp.Body, &progressWriter{
		onWrite: func(n int) {
			read += int64(n)
			if progress != nil {
				progress(read, resp.ContentLength)
			}
		},
	}))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if _, err := Parse(body); err != nil {
		return err
	}

	tmp := destPath + ".tmp"
	if err := os.WriteFile(tmp, body, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, destPath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

type progressWriter struct {
	onWrite func(int)
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	if pw.onWrite != nil {
		pw.onWrite(len(p))
	}
	return len(p), nil
}

func (m downloadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.waitingKey {
			return m, tea.Quit
		}
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case downloadCompleteMsg:
		m.done = true
		m.err = msg.err
		m.fileSize = msg.fileSize
		m.modTime = msg.modTime
		m.filePath = msg.filePath
		m.yearInfo = msg.yearInfo
		// wait for a key so the result stays on screen
		m.waitingKey = true
		return m, nil
	case downloadProgressMsg:
		m.downloaded = msg.bytesDownloaded
		m.total = msg.totalBytes
		m.speed = msg.speed
		return m, m.listenProgress
	}
	return m, nil
}

func (m downloadModel) View() string {
	if m.done {
		if m.err != nil {
			msg := fmt.Sprintf("Download failed\n\nError: %v\n\n", m.err)
			msg += "You can fetch the observances file by hand:\n"
			msg += fmt.Sprintf("1. Download: %s\n", m.url)
			msg += fmt.Sprintf("2. Save it as: %s\n\n", m.destPath)
			msg += "Press any key to exit...\n"
			return msg
		}
		msg := fmt.Sprintf("Download complete\n\nSize:     %s\nModified: %s\nSaved to: %s\n",
			formatBytes(m.fileSize), m.modTime.Format("2006-01-02 15:04:05"), m.filePath)
		if m.yearInfo != nil {
			msg += fmt.Sprintf("\nYear-specific entries: %d A.H. to %d A.H. (%d years)\n",
				m.yearInfo.MinYear, m.yearInfo.MaxYear, m.yearInfo.Count)
		}
		msg += "\nPress any key to exit...\n"
		return msg
	}

	const barWidth = 50
	var bar, info string
	if m.total > 0 {
		percent := float64(m.downloaded) / float64(m.total)
		if percent > 1.0 {
			percent = 1.0
		}
		filled := int(percent * barWidth)
		bar = strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
		info = fmt.Sprintf("%s / %s  %s  %.1f%%",
			formatBytes(m.downloaded), formatBytes(m.total), formatSpeed(m.speed), percent*100)
	} else {
		bar = strings.Repeat("░", barWidth)
		info = formatBytes(m.downloaded)
		if m.speed > 0 {
			info += "  " + formatSpeed(m.speed)
		}
	}
	return fmt.Sprintf("Downloading observances...\n\n[%s]\n%s\n\nPress Ctrl+C to cancel\n", bar, info)
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func formatSpeed(speed float64) string {
	return fmt.Sprintf("%s/s", formatBytes(int64(speed)))
}

// extractYearInfo reports the range of year-specific entries in an
// observances file.
func extractYearInfo(filePath string) (*YearInfo, error) {
	data, err := LoadFromFile(filePath)
	if err != nil {
		return nil, err
	}
	var info *YearInfo
	for key := range data {
		year, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		if info == nil {
			info = &YearInfo{MinYear: year, MaxYear: year}
		}
		info.MinYear = min(info.MinYear, year)
		info.MaxYear = max(info.MaxYear, year)
		info.Count++
	}
	if info == nil {
		return nil, errors.New("no year-specific entries found")
	}
	return info, nil
}

// DownloadObservances downloads the observances JSON from url into the cache
// directory, showing progress in the terminal.
func DownloadObservances(url string) error {
	cachePath, err := GetCachePath()
	if err != nil {
		return err
	}

	p := tea.NewProgram(newDownloadModel(url, cachePath), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(downloadModel); ok && m.err != nil {
		return m.err
	}
	return nil
}
