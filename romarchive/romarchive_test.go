package romarchive

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
)

var testExtensions = []string{".nes"}

func createTestROMFile(t *testing.T, data []byte, ext string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "game"+ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing test ROM: %v", err)
	}
	return path
}

func createTestZipFile(t *testing.T, romData []byte, romName string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating zip: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	fw, err := w.Create(romName)
	if err != nil {
		t.Fatalf("creating entry in zip: %v", err)
	}
	if _, err := fw.Write(romData); err != nil {
		t.Fatalf("writing zip entry: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return path
}

func createTestGzipFile(t *testing.T, romData []byte, ext string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "game"+ext+".gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating gzip: %v", err)
	}
	defer f.Close()

	w := gzip.NewWriter(f)
	if _, err := w.Write(romData); err != nil {
		t.Fatalf("writing gzip: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing gzip: %v", err)
	}
	return path
}

func createTestTarGzFile(t *testing.T, romData []byte, romName string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.tar.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating tar.gz: %v", err)
	}
	defer f.Close()

	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)
	if err := tw.WriteHeader(&tar.Header{Name: romName, Size: int64(len(romData)), Mode: 0644}); err != nil {
		t.Fatalf("writing tar header: %v", err)
	}
	if _, err := tw.Write(romData); err != nil {
		t.Fatalf("writing tar entry: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("closing tar writer: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("closing gzip writer: %v", err)
	}
	return path
}

func TestLoadTarGzArchive(t *testing.T) {
	testData := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	path := createTestTarGzFile(t, testData, "roms/hidden.nes")

	data, name, err := Load(path, testExtensions)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !bytes.Equal(data, testData) {
		t.Errorf("data mismatch: got %v want %v", data, testData)
	}
	if name != "hidden.nes" {
		t.Errorf("name = %q, want the basename only", name)
	}
}

func TestLoadRawROM(t *testing.T) {
	testData := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	path := createTestROMFile(t, testData, ".nes")

	data, name, err := Load(path, testExtensions)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !bytes.Equal(data, testData) {
		t.Errorf("data mismatch: got %v want %v", data, testData)
	}
	if name != "game.nes" {
		t.Errorf("name = %q, want game.nes", name)
	}
}

func TestLoadZipArchive(t *testing.T) {
	testData := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	path := createTestZipFile(t, testData, "roms/super.nes")

	data, name, err := Load(path, testExtensions)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !bytes.Equal(data, testData) {
		t.Errorf("data mismatch: got %v want %v", data, testData)
	}
	if name != "super.nes" {
		t.Errorf("name = %q, want the basename only", name)
	}
}

func TestLoadGzipFile(t *testing.T) {
	testData := []byte{0x11, 0x22, 0x33, 0x44}
	path := createTestGzipFile(t, testData, ".nes")

	data, _, err := Load(path, testExtensions)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !bytes.Equal(data, testData) {
		t.Errorf("data mismatch: got %v want %v", data, testData)
	}
}

func TestDetectFormatMagicBytes(t *testing.T) {
	cases := []struct {
		header []byte
		want   formatType
	}{
		{[]byte{0x50, 0x4B, 0x03, 0x04}, formatZIP},
		{[]byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}, format7z},
		{[]byte{0x1F, 0x8B}, formatGzip},
		{[]byte{0x52, 0x61, 0x72, 0x21}, formatRAR},
	}
	for _, c := range cases {
		if got := detectFormat(c.header, "file.dat", testExtensions); got != c.want {
			t.Errorf("detectFormat(%v): got %d want %d", c.header, got, c.want)
		}
	}
}

func TestDetectFormatByExtension(t *testing.T) {
	cases := []struct {
		path string
		want formatType
	}{
		{"game.nes", formatRaw},
		{"game.NES", formatRaw},
		{"game.zip", formatZIP},
		{"game.7z", format7z},
		{"game.tar.gz", formatGzip},
		{"game.rar", formatRAR},
		{"game.unknown", formatUnknown},
	}
	for _, c := range cases {
		if got := detectFormat(nil, c.path, testExtensions); got != c.want {
			t.Errorf("detectFormat(%s): got %d want %d", c.path, got, c.want)
		}
	}
}

func TestLoadNoROMInArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating zip: %v", err)
	}
	w := zip.NewWriter(f)
	fw, _ := w.Create("readme.txt")
	fw.Write([]byte("hello"))
	w.Close()
	f.Close()

	_, _, err = Load(path, testExtensions)
	if err != ErrNoROMFile {
		t.Fatalf("got %v, want ErrNoROMFile", err)
	}
}

func TestLoadFileNotFound(t *testing.T) {
	if _, _, err := Load("/nonexistent/game.nes", testExtensions); err == nil {
		t.Fatal("expected error for a missing file")
	}
}

func TestMatchesExtension(t *testing.T) {
	exts := []string{".nes", ".fds"}
	cases := []struct {
		name string
		want bool
	}{
		{"game.nes", true},
		{"game.NES", true},
		{"game.fds", true},
		{"game.nes.bak", false},
		{"game.txt", false},
	}
	for _, c := range cases {
		if got := matchesExtension(c.name, exts); got != c.want {
			t.Errorf("matchesExtension(%q): got %v want %v", c.name, got, c.want)
		}
	}
}
