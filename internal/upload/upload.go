// Package upload stores user-submitted files (resumes, company logos) on
// the local filesystem and hands back the public URL path they are served
// under.
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/xid"

	"github.com/sakif/jobboard/internal/apperror"
)

// MaxFileSize caps every upload at 2 MB.
const MaxFileSize = 2 << 20

const (
	resumeDir = "resumes"
	logoDir   = "logos"
)

var resumeExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

var logoExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".svg":  true,
}

// Store writes uploads under a base directory, one subdirectory per file
// kind. Files are renamed to fresh IDs so uploads can never collide or
// overwrite each other.
type Store struct {
	baseDir string
}

// NewStore creates a Store rooted at baseDir, creating the subdirectories
// if needed.
func NewStore(baseDir string) (*Store, error) {
	for _, sub := range []string{resumeDir, logoDir} {
		if err := os.MkdirAll(filepath.Join(baseDir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("upload: creating %s directory: %w", sub, err)
		}
	}
	return &Store{baseDir: baseDir}, nil
}

// SaveResume stores a resume (pdf, doc, or docx) and returns its URL path,
// e.g. "/uploads/resumes/cmf1x9....pdf".
func (s *Store) SaveResume(file multipart.File, header *multipart.FileHeader) (string, error) {
	return s.save(file, header, resumeDir, resumeExtensions, "resume must be a pdf, doc, or docx file")
}

// SaveLogo stores a company logo image and returns its URL path.
func (s *Store) SaveLogo(file multipart.File, header *multipart.FileHeader) (string, error) {
	return s.save(file, header, logoDir, logoExtensions, "logo must be a png, jpg, jpeg, webp, or svg image")
}

func (s *Store) save(file multipart.File, header *multipart.FileHeader, sub string, allowed map[string]bool, typeMsg string) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowed[ext] {
		return "", apperror.ValidationFailed("file", typeMsg)
	}
	if header.Size > MaxFileSize {
		return "", apperror.ValidationFailed("file", "file must not exceed 2MB")
	}

	name := xid.New().String() + ext
	dst, err := os.Create(filepath.Join(s.baseDir, sub, name))
	if err != nil {
		return "", fmt.Errorf("upload: creating file: %w", err)
	}
	defer dst.Close()

	// Copy at most MaxFileSize+1 bytes so a lying Content-Length can't
	// sneak an oversized body past the header check.
	n, err := io.Copy(dst, io.LimitReader(file, MaxFileSize+1))
	if err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("upload: writing file: %w", err)
	}
	if n > MaxFileSize {
		os.Remove(dst.Name())
		return "", apperror.ValidationFailed("file", "file must not exceed 2MB")
	}

	return path.Join("/uploads", sub, name), nil
}

// BaseDir returns the directory the store writes under, for the server to
// mount as a static file route.
func (s *Store) BaseDir() string {
	return s.baseDir
}
