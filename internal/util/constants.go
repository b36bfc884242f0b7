package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 答题卡上传相关常量
const (
	MimeImage       = "image/"
	MimePDF         = "application/pdf"
	MimeOctetStream = "application/octet-stream"

	// MaxSheetUploadSize 答题卡图片上限 20MB
	MaxSheetUploadSize = 20 << 20
)

var (
	AllowedSheetExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".pdf"}
)
