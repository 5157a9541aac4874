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
	"path"
	"path/filepath"
	"time"

	"github.com/bodgit/sevenzip"
)

// Member describes a single archive entry.
type Member struct {
	Name    string      `json:"name"`
	Size    int64       `json:"size"`
	Mode    fs.FileMode `json:"mode"`
	ModTime time.Time   `json:"mtime"`
}

// BuildResult summarizes a completed tarball build.
type BuildResult struct {
	Members    int   // entries written, including directories
	TotalBytes int64 // uncompressed file bytes
}

// BuildTarGz writes a gzip-compressed tarball of projectDir to outputFile,
// overwriting any existing file at that path without confirmation. Member
// names are rooted at filepath.Base(projectDir) so extraction anywhere
// recreates a single project subtree. Entries matching excludes are omitted
// and excluded directories are pruned whole. A failed build leaves whatever
// was already written: there is no partial-archive cleanup.
func BuildTarGz(ctx context.Context, projectDir, outputFile string, excludes *ExcludeSet) (res *BuildResult, err error) {
	projectDir = filepath.Clean(projectDir)
	rootName := filepath.Base(projectDir)

	out, err := os.Create(outputFile)
	if err != nil {
		return nil, fmt.Errorf("creating archive file %q: %w", outputFile, err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	gzw := gzip.NewWriter(out)
	tw := tar.NewWriter(gzw)

	res = &BuildResult{}
	walkErr := filepath.Walk(projectDir, func(p string, info os.FileInfo, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if walkErr != nil {
			return fmt.Errorf("walking path: %w", walkErr)
		}

		relPath, relErr := filepath.Rel(projectDir, p)
		if relErr != nil {
			return fmt.Errorf("computing relative path: %w", relErr)
		}

		if relPath != "." && excludes.Match(relPath) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		var link string
		switch {
		case info.Mode()&os.ModeSymlink != 0:
			if link, relErr = os.Readlink(p); relErr != nil {
				return fmt.Errorf("reading symlink %q: %w", p, relErr)
			}
		case !info.Mode().IsRegular() && !info.IsDir():
			// Sockets, devices and the like have no place in a source archive.
			return nil
		}

		header, headerErr := tar.FileInfoHeader(info, link)
		if headerErr != nil {
			return fmt.Errorf("creating tar header: %w", headerErr)
		}
		if relPath == "." {
			header.Name = rootName + "/"
		} else {
			header.Name = path.Join(rootName, filepath.ToSlash(relPath))
			if info.IsDir() {
				header.Name += "/"
			}
		}

		if whErr := tw.WriteHeader(header); whErr != nil {
			return fmt.Errorf("writing tar header for %q: %w", header.Name, whErr)
		}
		res.Members++

		if !info.Mode().IsRegular() {
			return nil
		}
		file, openErr := os.Open(p)
		if openErr != nil {
			return fmt.Errorf("opening file: %w", openErr)
		}
		n, copyErr := io.Copy(tw, file)
		file.Close()
		if copyErr != nil {
			return fmt.Errorf("copying %q into archive: %w", p, copyErr)
		}
		res.TotalBytes += n
		return nil
	})
	if walkErr != nil {
		tw.Close()
		gzw.Close()
		return nil, walkErr
	}

	if closeErr := tw.Close(); closeErr != nil {
		return nil, fmt.Errorf("closing tar stream: %w", closeErr)
	}
	if closeErr := gzw.Close(); closeErr != nil {
		return nil, fmt.Errorf("closing gzip stream: %w", closeErr)
	}
	return res, nil
}

// ListArchive returns the member list of the archive at path, in archive
// order. The format is detected by signature: 7z, zip, then tar (plain or
// gzip-compressed).
func ListArchive(archivePath string) ([]Member, error) {
	switch {
	case Is7zFile(archivePath):
		return list7z(archivePath)
	case IsZipFile(archivePath):
		return listZip(archivePath)
	case IsGzipFile(archivePath), IsTarFile(archivePath):
		return listTar(archivePath)
	default:
		return nil, fmt.Errorf("archive is not in a supported format: %s", archivePath)
	}
}

func listTar(archivePath string) ([]Member, error) {
	file, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var tarReader *tar.Reader
	if IsGzipFile(archivePath) {
		gr, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("reading gzip stream: %w", err)
		}
		defer gr.Close()
		tarReader = tar.NewReader(gr)
	} else {
		tarReader = tar.NewReader(file)
	}

	var members []Member
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading tar member: %w", err)
		}
		members = append(members, Member{
			Name:    header.Name,
			Size:    header.Size,
			Mode:    header.FileInfo().Mode(),
			ModTime: header.ModTime,
		})
	}
	return members, nil
}

func listZip(archivePath string) ([]Member, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("opening zip file %q: %w", archivePath, err)
	}
	defer reader.Close()

	members := make([]Member, 0, len(reader.File))
	for _, file := range reader.File {
		info := file.FileInfo()
		members = append(members, Member{
			Name:    file.Name,
			Size:    info.Size(),
			Mode:    info.Mode(),
			ModTime: info.ModTime(),
		})
	}
	return members, nil
}

func list7z(archivePath string) ([]Member, error) {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("opening 7z file %q: %w", archivePath, err)
	}
	defer r.Close()

	members := make([]Member, 0, len(r.File))
	for _, file := range r.File {
		info := file.FileInfo()
		members = append(members, Member{
			Name:    file.Name,
			Size:    info.Size(),
			Mode:    file.Mode(),
			ModTime: info.ModTime(),
		})
	}
	return members, nil
}
