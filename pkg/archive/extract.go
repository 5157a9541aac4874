package archive

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"

	"github.com/Coobeliues/vector-search/pkg/utils"
)

// validatePath ensures that target is within destDir (prevents ZipSlip).
func validatePath(target, destDir string) error {
	cleanDest := filepath.Clean(destDir) + string(os.PathSeparator)
	if !strings.HasPrefix(filepath.Clean(target), cleanDest) {
		return fmt.Errorf("illegal file path: %s", target)
	}
	return nil
}

// rootTracker records the top-level entries seen during extraction so the
// caller learns where the extracted tree landed.
type rootTracker struct {
	root  string
	mixed bool
}

func (t *rootTracker) observe(name string) {
	first := strings.SplitN(filepath.ToSlash(name), "/", 2)[0]
	if first == "" {
		return
	}
	switch {
	case t.root == "":
		t.root = first
	case t.root != first:
		t.mixed = true
	}
}

// extractedPath returns dest/<root> when the archive had a single top-level
// entry, dest otherwise.
func (t *rootTracker) extractedPath(dest string) string {
	if t.root == "" || t.mixed {
		return dest
	}
	return filepath.Join(dest, t.root)
}

// ----------------------------
// Extraction Functions
// ----------------------------

// ExtractArchive extracts the archive at src into dest, detecting the format
// by signature (7z, tar/tar.gz, zip). It returns the path of the extracted
// tree: dest/<root> when the archive holds a single top-level directory.
func ExtractArchive(ctx context.Context, src, dest string) (string, error) {
	switch {
	case Is7zFile(src):
		extracted, err := Extract7z(ctx, src, dest)
		if err != nil {
			return "", fmt.Errorf("error extracting 7zip: %w", err)
		}
		return extracted, nil
	case IsGzipFile(src), IsTarFile(src):
		extracted, err := ExtractTar(ctx, src, dest)
		if err != nil {
			return "", fmt.Errorf("error extracting tar: %w", err)
		}
		return extracted, nil
	case IsZipFile(src):
		extracted, err := ExtractZip(ctx, src, dest)
		if err != nil {
			return "", fmt.Errorf("error extracting zip: %w", err)
		}
		return extracted, nil
	default:
		return "", fmt.Errorf("archive is not in a supported format: %s", src)
	}
}

// ExtractTar extracts a TAR or TAR.GZ archive at src into dest.
// It performs a ZipSlip check on every member and honors ctx cancellation.
func ExtractTar(ctx context.Context, src, dest string) (string, error) {
	file, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer file.Close()

	var tarReader *tar.Reader
	if IsGzipFile(src) {
		gr, err := gzip.NewReader(file)
		if err != nil {
			return "", err
		}
		defer gr.Close()
		tarReader = tar.NewReader(gr)
	} else {
		tarReader = tar.NewReader(file)
	}

	if err := utils.CreateDir(dest); err != nil {
		return "", err
	}
	cleanDest := filepath.Clean(dest) + string(os.PathSeparator)

	var roots rootTracker
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
		header, err := tarReader.Next()
		if err == io.EOF {
			break // end of archive
		}
		if err != nil {
			return "", err
		}
		filePath := filepath.Join(cleanDest, header.Name)
		if err := validatePath(filePath, cleanDest); err != nil {
			return "", err
		}
		roots.observe(header.Name)

		switch header.Typeflag {
		case tar.TypeDir:
			if err := utils.CreateDir(filePath); err != nil {
				return "", err
			}
		case tar.TypeReg:
			if err := utils.CreateDir(filepath.Dir(filePath)); err != nil {
				return "", err
			}
			outFile, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fs.FileMode(header.Mode))
			if err != nil {
				return "", err
			}
			if _, err := io.Copy(outFile, tarReader); err != nil {
				outFile.Close()
				return "", err
			}
			outFile.Close()
		case tar.TypeSymlink:
			if err := utils.CreateDir(filepath.Dir(filePath)); err != nil {
				return "", err
			}
			if err := os.Symlink(header.Linkname, filePath); err != nil && !os.IsExist(err) {
				return "", err
			}
		}
	}

	return roots.extractedPath(dest), nil
}

// ExtractZip extracts the ZIP archive at src into dest.
func ExtractZip(ctx context.Context, src, dest string) (string, error) {
	reader, err := zip.OpenReader(src)
	if err != nil {
		return "", fmt.Errorf("failed to open zip file %q: %w", src, err)
	}
	defer reader.Close()

	if err := utils.CreateDir(dest); err != nil {
		return "", fmt.Errorf("failed to create destination directory %q: %w", dest, err)
	}
	cleanDest := filepath.Clean(dest) + string(os.PathSeparator)

	var roots rootTracker
	for _, file := range reader.File {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
		filePath := filepath.Join(cleanDest, file.Name)
		if err := validatePath(filePath, cleanDest); err != nil {
			return "", fmt.Errorf("invalid file path %q: %w", filePath, err)
		}
		roots.observe(file.Name)

		if file.FileInfo().IsDir() {
			if err := utils.CreateDir(filePath); err != nil {
				return "", fmt.Errorf("failed to create directory %q: %w", filePath, err)
			}
			continue
		}
		if err := utils.CreateDir(filepath.Dir(filePath)); err != nil {
			return "", fmt.Errorf("failed to create parent directories for %q: %w", filePath, err)
		}

		outFile, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, file.Mode())
		if err != nil {
			return "", fmt.Errorf("failed to create file %q: %w", filePath, err)
		}
		rc, err := file.Open()
		if err != nil {
			outFile.Close()
			return "", fmt.Errorf("failed to open file %q in archive: %w", file.Name, err)
		}
		if _, err := io.Copy(outFile, rc); err != nil {
			rc.Close()
			outFile.Close()
			return "", fmt.Errorf("failed to copy contents to %q: %w", filePath, err)
		}
		rc.Close()
		outFile.Close()
	}

	return roots.extractedPath(dest), nil
}

// Extract7z extracts the 7z archive at src into dest using similar logic.
func Extract7z(ctx context.Context, src, dest string) (string, error) {
	r, err := sevenzip.OpenReader(src)
	if err != nil {
		return "", fmt.Errorf("opening archive: %w", err)
	}
	defer r.Close()

	if err := utils.CreateDir(dest); err != nil {
		return "", fmt.Errorf("creating destination directory: %w", err)
	}
	cleanDest := filepath.Clean(dest) + string(os.PathSeparator)

	var roots rootTracker
	for _, file := range r.File {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
		outPath := filepath.Join(cleanDest, file.Name)
		if err := validatePath(outPath, cleanDest); err != nil {
			return "", err
		}
		roots.observe(file.Name)

		if file.FileInfo().IsDir() {
			if err := utils.CreateDir(outPath); err != nil {
				return "", fmt.Errorf("creating directory %q: %w", outPath, err)
			}
			continue
		}
		if err := utils.CreateDir(filepath.Dir(outPath)); err != nil {
			return "", fmt.Errorf("creating parent directories for %q: %w", outPath, err)
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("opening file %q from archive: %w", file.Name, err)
		}
		outFile, err := os.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, file.Mode())
		if err != nil {
			rc.Close()
			return "", fmt.Errorf("creating file %q: %w", outPath, err)
		}
		if _, err := io.Copy(outFile, rc); err != nil {
			rc.Close()
			outFile.Close()
			return "", fmt.Errorf("copying contents to %q: %w", outPath, err)
		}
		rc.Close()
		outFile.Close()
	}

	return roots.extractedPath(dest), nil
}
