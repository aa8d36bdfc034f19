package storage

import (
	"io"
)

// Storage 媒体文件存储接口
type Storage interface {
	// Save 将文件内容存入 subPath 目录下，返回存储路径
	Save(subPath, filename string, r io.Reader) (string, error)

	// Delete 删除存储的文件，文件不存在时不视为错误
	Delete(path string) error

	// PublicURL 返回文件的公开访问地址
	PublicURL(path string) string
}
