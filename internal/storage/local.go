package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/kindred/kcf/internal/logger"
)

// LocalStorage 本地文件系统存储
type LocalStorage struct {
	basePath string // 文件存储根目录
	baseURL  string // 公开访问地址前缀，为空时使用 /uploads 相对路径
}

// NewLocalStorage 创建本地存储，确保根目录存在
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  baseURL,
	}, nil
}

// Save 将文件写入 subPath 目录，文件名使用 uuid 避免冲突
func (ls *LocalStorage) Save(subPath, filename string, r io.Reader) (string, error) {
	dir := ls.basePath
	if subPath != "" {
		dir = filepath.Join(ls.basePath, subPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create subdirectory: %w", err)
		}
	}

	ext := filepath.Ext(filename)
	uniqueName := uuid.New().String() + ext
	dstPath := filepath.Join(dir, uniqueName)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		// 清理写了一半的文件
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	storedPath := uniqueName
	if subPath != "" {
		storedPath = subPath + "/" + uniqueName
	}

	logger.Info("File saved: %s -> %s", filename, storedPath)
	return storedPath, nil
}

// Delete 删除存储的文件
func (ls *LocalStorage) Delete(path string) error {
	if path == "" {
		return nil
	}

	fullPath := filepath.Join(ls.basePath, filepath.FromSlash(path))
	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete file %s: %w", path, err)
	}
	return nil
}

// PublicURL 返回文件的公开访问地址
func (ls *LocalStorage) PublicURL(path string) string {
	if path == "" {
		return ""
	}
	if ls.baseURL != "" {
		return strings.TrimRight(ls.baseURL, "/") + "/" + path
	}
	return "/uploads/" + path
}

// BasePath 存储根目录，路由挂载静态目录时使用
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}
