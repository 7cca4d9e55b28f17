package clientcli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Formatter formats results for output.
type Formatter interface {
	FormatDisks(w io.Writer, list *DiskList) error
	FormatListing(w io.Writer, listing *Listing) error
	FormatDownload(w io.Writer, result *DownloadResult) error
	FormatDownloads(w io.Writer, results []DownloadResult) error
	FormatRegister(w io.Writer, result *RegisterResult) error
	FormatState(w io.Writer, result *StateResult) error
	FormatStats(w io.Writer, stats *DownloadStats) error
	FormatError(w io.Writer, err error) error
	FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error
	FormatProfileShow(w io.Writer, profile Profile, isDefault bool) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput, quiet bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet}
}

// HumanFormatter outputs human-readable text.
type HumanFormatter struct {
	Quiet bool
}

// FormatDisks prints one disk name per line.
func (f *HumanFormatter) FormatDisks(w io.Writer, list *DiskList) error {
	if len(list.Disks) == 0 {
		if !f.Quiet {
			_, _ = fmt.Fprintln(w, "No disks registered")
		}
		return nil
	}
	for _, d := range list.Disks {
		_, _ = fmt.Fprintln(w, d)
	}
	return nil
}

// FormatListing prints one file URL per line followed by a summary.
func (f *HumanFormatter) FormatListing(w io.Writer, listing *Listing) error {
	for _, u := range listing.URLs {
		_, _ = fmt.Fprintln(w, u)
	}
	if !f.Quiet {
		_, _ = fmt.Fprintf(w, "\n%d file(s) on %s\n", len(listing.URLs), listing.Disk)
	}
	return nil
}

// FormatDownload formats download result as human-readable text.
func (f *HumanFormatter) FormatDownload(w io.Writer, result *DownloadResult) error {
	if f.Quiet {
		return nil
	}
	if result.LocalPath == "-" {
		_, _ = fmt.Fprintf(w, "Downloaded: %s (%s)\n", result.URL, formatSize(result.Size))
	} else {
		_, _ = fmt.Fprintf(w, "Downloaded: %s -> %s (%s)\n", result.URL, result.LocalPath, formatSize(result.Size))
	}
	if result.ContentType != "" {
		_, _ = fmt.Fprintf(w, "  Content-Type: %s\n", result.ContentType)
	}
	return nil
}

// FormatDownloads formats the results of a disk download as human-readable text.
func (f *HumanFormatter) FormatDownloads(w io.Writer, results []DownloadResult) error {
	var total int64
	failed := 0
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			failed++
			_, _ = fmt.Fprintf(w, "Error: %s - %v\n", r.URL, r.Err)
			continue
		}
		total += r.Size
		if !f.Quiet {
			_, _ = fmt.Fprintf(w, "Downloaded: %s (%s)\n", r.LocalPath, formatSize(r.Size))
		}
	}
	if !f.Quiet {
		_, _ = fmt.Fprintf(w, "\n%d file(s) downloaded (%s total), %d failed\n", len(results)-failed, formatSize(total), failed)
	}
	return nil
}

// FormatRegister formats a disk registration as human-readable text.
func (f *HumanFormatter) FormatRegister(w io.Writer, result *RegisterResult) error {
	if !f.Quiet {
		_, _ = fmt.Fprintf(w, "Registered: %s -> %s\n", result.Disk, result.Path)
	}
	return nil
}

// FormatState formats a pause or resume answer as human-readable text.
func (f *HumanFormatter) FormatState(w io.Writer, result *StateResult) error {
	if f.Quiet {
		return nil
	}
	switch result.State {
	case "pause":
		_, _ = fmt.Fprintln(w, "Downloads paused")
	case "resume":
		_, _ = fmt.Fprintln(w, "Downloads resumed")
	default:
		_, _ = fmt.Fprintln(w, result.State)
	}
	return nil
}

// FormatStats formats download counters as a table.
func (f *HumanFormatter) FormatStats(w io.Writer, stats *DownloadStats) error {
	if len(stats.Files) == 0 {
		_, _ = fmt.Fprintf(w, "No downloads recorded on %s\n", stats.Disk)
		return nil
	}

	maxPathLen := 4 // "PATH"
	for i := range stats.Files {
		if len(stats.Files[i].Path) > maxPathLen {
			maxPathLen = len(stats.Files[i].Path)
		}
	}
	if maxPathLen > 60 {
		maxPathLen = 60
	}

	_, _ = fmt.Fprintf(w, "%-*s  %10s  %s\n", maxPathLen, "PATH", "DOWNLOADS", "LAST DOWNLOAD")
	_, _ = fmt.Fprintf(w, "%s  %s  %s\n", strings.Repeat("-", maxPathLen), strings.Repeat("-", 10), strings.Repeat("-", 19))

	var total int64
	for i := range stats.Files {
		file := &stats.Files[i]
		p := file.Path
		if len(p) > maxPathLen {
			p = p[:maxPathLen-3] + "..."
		}
		total += file.Count
		_, _ = fmt.Fprintf(w, "%-*s  %10d  %s\n",
			maxPathLen,
			p,
			file.Count,
			file.LastDownloadedAt.Format("2006-01-02 15:04:05"),
		)
	}

	if !f.Quiet {
		_, _ = fmt.Fprintf(w, "\n%d file(s), %d download(s) on %s\n", len(stats.Files), total, stats.Disk)
	}
	return nil
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// FormatProfileList formats a list of profiles as human-readable text.
func (f *HumanFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error {
	maxNameLen := 4     // "NAME"
	maxEndpointLen := 8 // "ENDPOINT"
	for i := range profiles {
		if len(profiles[i].Name) > maxNameLen {
			maxNameLen = len(profiles[i].Name)
		}
		if len(profiles[i].Endpoint) > maxEndpointLen {
			maxEndpointLen = len(profiles[i].Endpoint)
		}
	}
	if maxNameLen > 20 {
		maxNameLen = 20
	}
	if maxEndpointLen > 50 {
		maxEndpointLen = 50
	}

	_, _ = fmt.Fprintf(w, "  %-*s  %-*s  %s\n", maxNameLen, "NAME", maxEndpointLen, "ENDPOINT", "BASE PATH")
	_, _ = fmt.Fprintf(w, "  %s  %s  %s\n", strings.Repeat("-", maxNameLen), strings.Repeat("-", maxEndpointLen), strings.Repeat("-", 20))

	for i := range profiles {
		p := &profiles[i]
		marker := " "
		if p.Name == defaultName {
			marker = "*"
		}

		name := p.Name
		if len(name) > maxNameLen {
			name = name[:maxNameLen-3] + "..."
		}

		endpoint := p.Endpoint
		if len(endpoint) > maxEndpointLen {
			endpoint = endpoint[:maxEndpointLen-3] + "..."
		}

		_, _ = fmt.Fprintf(w, "%s %-*s  %-*s  %s\n", marker, maxNameLen, name, maxEndpointLen, endpoint, basePathOrDefault(p.BasePath))
	}

	return nil
}

// FormatProfileShow formats a single profile as human-readable text.
func (f *HumanFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault bool) error {
	_, _ = fmt.Fprintf(w, "Name:      %s", profile.Name)
	if isDefault {
		_, _ = fmt.Fprintf(w, " (default)")
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Endpoint:  %s\n", profile.Endpoint)
	_, _ = fmt.Fprintf(w, "Base Path: %s\n", basePathOrDefault(profile.BasePath))
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// FormatDisks formats the disk list as JSON.
func (f *JSONFormatter) FormatDisks(w io.Writer, list *DiskList) error {
	return writeJSON(w, list)
}

// FormatListing formats a file listing as JSON.
func (f *JSONFormatter) FormatListing(w io.Writer, listing *Listing) error {
	return writeJSON(w, listing)
}

// FormatDownload formats download result as JSON.
func (f *JSONFormatter) FormatDownload(w io.Writer, result *DownloadResult) error {
	return writeJSON(w, result)
}

// FormatDownloads formats the results of a disk download as JSON.
func (f *JSONFormatter) FormatDownloads(w io.Writer, results []DownloadResult) error {
	// Convert errors to strings for JSON output
	type jsonResult struct {
		URL         string `json:"url"`
		LocalPath   string `json:"local_path,omitempty"`
		ContentType string `json:"content_type,omitempty"`
		Size        int64  `json:"size_bytes,omitempty"`
		Error       string `json:"error,omitempty"`
	}

	output := struct {
		Results []jsonResult `json:"results"`
	}{
		Results: make([]jsonResult, len(results)),
	}

	for i := range results {
		r := &results[i]
		jr := jsonResult{
			URL:       r.URL,
			LocalPath: r.LocalPath,
		}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		} else {
			jr.ContentType = r.ContentType
			jr.Size = r.Size
		}
		output.Results[i] = jr
	}

	return writeJSON(w, output)
}

// FormatRegister formats a disk registration as JSON.
func (f *JSONFormatter) FormatRegister(w io.Writer, result *RegisterResult) error {
	return writeJSON(w, result)
}

// FormatState formats a pause or resume answer as JSON.
func (f *JSONFormatter) FormatState(w io.Writer, result *StateResult) error {
	return writeJSON(w, result)
}

// FormatStats formats download counters as JSON.
func (f *JSONFormatter) FormatStats(w io.Writer, stats *DownloadStats) error {
	return writeJSON(w, stats)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return writeJSON(w, output)
}

// FormatProfileList formats a list of profiles as JSON.
func (f *JSONFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error {
	type jsonProfile struct {
		Name     string `json:"name"`
		Endpoint string `json:"endpoint"`
		BasePath string `json:"base_path"`
		Default  bool   `json:"default,omitempty"`
	}

	output := struct {
		Profiles []jsonProfile `json:"profiles"`
	}{
		Profiles: make([]jsonProfile, len(profiles)),
	}

	for i := range profiles {
		p := &profiles[i]
		output.Profiles[i] = jsonProfile{
			Name:     p.Name,
			Endpoint: p.Endpoint,
			BasePath: basePathOrDefault(p.BasePath),
			Default:  p.Name == defaultName,
		}
	}

	return writeJSON(w, output)
}

// FormatProfileShow formats a single profile as JSON.
func (f *JSONFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault bool) error {
	output := struct {
		Name     string `json:"name"`
		Endpoint string `json:"endpoint"`
		BasePath string `json:"base_path"`
		Default  bool   `json:"default"`
	}{
		Name:     profile.Name,
		Endpoint: profile.Endpoint,
		BasePath: basePathOrDefault(profile.BasePath),
		Default:  isDefault,
	}

	return writeJSON(w, output)
}

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// formatSize formats bytes as human-readable size.
func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case bytes < 0:
		return "unknown size"
	case bytes >= TB:
		return fmt.Sprintf("%.1f TB", float64(bytes)/TB)
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

func basePathOrDefault(p string) string {
	if p == "" {
		return DefaultBasePath
	}
	return p
}
