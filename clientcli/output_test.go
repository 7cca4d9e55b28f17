package clientcli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sagarc03/vdisk"
	"github.com/sagarc03/vdisk/clientcli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormatter(t *testing.T) {
	t.Run("json formatter", func(t *testing.T) {
		formatter := clientcli.NewFormatter(true, false)
		_, ok := formatter.(*clientcli.JSONFormatter)
		assert.True(t, ok)
	})

	t.Run("human formatter", func(t *testing.T) {
		formatter := clientcli.NewFormatter(false, false)
		_, ok := formatter.(*clientcli.HumanFormatter)
		assert.True(t, ok)
	})

	t.Run("human formatter quiet", func(t *testing.T) {
		formatter := clientcli.NewFormatter(false, true)
		hf, ok := formatter.(*clientcli.HumanFormatter)
		require.True(t, ok)
		assert.True(t, hf.Quiet)
	})
}

func TestHumanFormatter_FormatDisks(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&clientcli.HumanFormatter{}).FormatDisks(&buf, &clientcli.DiskList{Disks: []string{"A", "B"}}))
	assert.Equal(t, "A\nB\n", buf.String())

	buf.Reset()
	require.NoError(t, (&clientcli.HumanFormatter{}).FormatDisks(&buf, &clientcli.DiskList{}))
	assert.Contains(t, buf.String(), "No disks registered")
}

func TestHumanFormatter_FormatListing(t *testing.T) {
	listing := &clientcli.Listing{Disk: "Photos", URLs: []string{"http://h/file/Photos/a.jpg"}}

	t.Run("with summary", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{}).FormatListing(&buf, listing))
		assert.Contains(t, buf.String(), "http://h/file/Photos/a.jpg\n")
		assert.Contains(t, buf.String(), "1 file(s) on Photos")
	})

	t.Run("quiet prints urls only", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{Quiet: true}).FormatListing(&buf, listing))
		assert.Equal(t, "http://h/file/Photos/a.jpg\n", buf.String())
	})
}

func TestHumanFormatter_FormatDownload(t *testing.T) {
	t.Run("to file", func(t *testing.T) {
		var buf bytes.Buffer
		err := (&clientcli.HumanFormatter{}).FormatDownload(&buf, &clientcli.DownloadResult{
			URL:         "http://h/file/D/a.jpg",
			LocalPath:   "a.jpg",
			ContentType: "image/jpeg",
			Size:        2048,
		})
		require.NoError(t, err)

		output := buf.String()
		assert.Contains(t, output, "Downloaded: http://h/file/D/a.jpg -> a.jpg (2.0 KB)")
		assert.Contains(t, output, "Content-Type: image/jpeg")
	})

	t.Run("quiet", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{Quiet: true}).FormatDownload(&buf, &clientcli.DownloadResult{}))
		assert.Empty(t, buf.String())
	})
}

func TestHumanFormatter_FormatDownloads(t *testing.T) {
	results := []clientcli.DownloadResult{
		{URL: "http://h/a", LocalPath: "/tmp/a", Size: 10},
		{URL: "http://h/b", Err: errors.New("boom")},
	}

	var buf bytes.Buffer
	require.NoError(t, (&clientcli.HumanFormatter{}).FormatDownloads(&buf, results))

	output := buf.String()
	assert.Contains(t, output, "Downloaded: /tmp/a (10 B)")
	assert.Contains(t, output, "Error: http://h/b - boom")
	assert.Contains(t, output, "1 file(s) downloaded (10 B total), 1 failed")
}

func TestHumanFormatter_FormatState(t *testing.T) {
	var buf bytes.Buffer
	f := &clientcli.HumanFormatter{}

	require.NoError(t, f.FormatState(&buf, &clientcli.StateResult{State: "pause"}))
	require.NoError(t, f.FormatState(&buf, &clientcli.StateResult{State: "resume"}))
	assert.Equal(t, "Downloads paused\nDownloads resumed\n", buf.String())
}

func TestHumanFormatter_FormatStats(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		stats := &clientcli.DownloadStats{
			Disk: "Photos",
			Files: []vdisk.DownloadCount{
				{Path: "a.jpg", Count: 3, LastDownloadedAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
				{Path: "b.jpg", Count: 1, LastDownloadedAt: time.Date(2024, 1, 16, 8, 0, 0, 0, time.UTC)},
			},
		}

		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{}).FormatStats(&buf, stats))

		output := buf.String()
		assert.Contains(t, output, "PATH")
		assert.Contains(t, output, "DOWNLOADS")
		assert.Contains(t, output, "2024-01-15 10:30:00")
		assert.Contains(t, output, "2 file(s), 4 download(s) on Photos")
	})

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{}).FormatStats(&buf, &clientcli.DownloadStats{Disk: "Photos"}))
		assert.Contains(t, buf.String(), "No downloads recorded on Photos")
	})
}

func TestHumanFormatter_FormatProfiles(t *testing.T) {
	profiles := []clientcli.Profile{
		{Name: "local", Endpoint: "http://localhost:8090"},
		{Name: "prod", Endpoint: "https://disks.example.com", BasePath: "/api"},
	}

	var buf bytes.Buffer
	f := &clientcli.HumanFormatter{}
	require.NoError(t, f.FormatProfileList(&buf, profiles, "prod"))

	output := buf.String()
	assert.Contains(t, output, "  local")
	assert.Contains(t, output, "* prod")
	assert.Contains(t, output, clientcli.DefaultBasePath)

	buf.Reset()
	require.NoError(t, f.FormatProfileShow(&buf, profiles[1], true))
	assert.Contains(t, buf.String(), "Name:      prod (default)")
	assert.Contains(t, buf.String(), "Base Path: /api")
}

func TestJSONFormatter_FormatListing(t *testing.T) {
	listing := &clientcli.Listing{Disk: "D", URLs: []string{"http://h/file/D/a&b.txt"}}

	var buf bytes.Buffer
	require.NoError(t, (&clientcli.JSONFormatter{}).FormatListing(&buf, listing))

	// URLs are written unescaped
	assert.Contains(t, buf.String(), "a&b.txt")

	var decoded clientcli.Listing
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, *listing, decoded)
}

func TestJSONFormatter_FormatDownloads(t *testing.T) {
	results := []clientcli.DownloadResult{
		{URL: "http://h/a", LocalPath: "/tmp/a", ContentType: "text/plain", Size: 1},
		{URL: "http://h/b", Err: errors.New("boom")},
	}

	var buf bytes.Buffer
	require.NoError(t, (&clientcli.JSONFormatter{}).FormatDownloads(&buf, results))

	var output struct {
		Results []struct {
			URL   string `json:"url"`
			Size  int64  `json:"size_bytes"`
			Error string `json:"error"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	require.Len(t, output.Results, 2)
	assert.Equal(t, int64(1), output.Results[0].Size)
	assert.Empty(t, output.Results[0].Error)
	assert.Equal(t, "boom", output.Results[1].Error)
}

func TestJSONFormatter_FormatProfileList(t *testing.T) {
	profiles := []clientcli.Profile{{Name: "local", Endpoint: "http://localhost:8090"}}

	var buf bytes.Buffer
	require.NoError(t, (&clientcli.JSONFormatter{}).FormatProfileList(&buf, profiles, "local"))

	var output struct {
		Profiles []struct {
			Name     string `json:"name"`
			BasePath string `json:"base_path"`
			Default  bool   `json:"default"`
		} `json:"profiles"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	require.Len(t, output.Profiles, 1)
	assert.True(t, output.Profiles[0].Default)
	assert.Equal(t, clientcli.DefaultBasePath, output.Profiles[0].BasePath)
}

func TestJSONFormatter_FormatError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&clientcli.JSONFormatter{}).FormatError(&buf, errors.New("test error")))

	var output map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	assert.Equal(t, "test error", output["error"])
}
