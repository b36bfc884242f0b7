package util

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ImageInfo 答题卡图片元信息
type ImageInfo struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
	Size   int64  `json:"size"`
}

// maxSheetDimension 超过该边长的扫描件在送模型前先降采样
const maxSheetDimension = 2048

// ProbeImage 使用ffmpeg-go获取答题卡图片信息
func ProbeImage(imagePath string) (*ImageInfo, error) {
	fileInfo, err := os.Stat(imagePath)
	if err != nil {
		return nil, fmt.Errorf("图片文件不存在: %v", err)
	}

	jsonOutput, err := ffmpeg.Probe(imagePath)
	if err != nil {
		return nil, fmt.Errorf("获取图片信息失败: %v", err)
	}

	var result struct {
		Streams []struct {
			CodecType string `json:"codec_type"`
			CodecName string `json:"codec_name"`
			Width     int    `json:"width"`
			Height    int    `json:"height"`
		} `json:"streams"`
		Format struct {
			Size string `json:"size"`
		} `json:"format"`
	}

	if err := json.Unmarshal([]byte(jsonOutput), &result); err != nil {
		return nil, fmt.Errorf("解析图片信息失败: %v", err)
	}

	info := &ImageInfo{Size: fileInfo.Size(), Format: "unknown"}
	for _, stream := range result.Streams {
		if stream.CodecType == "video" {
			// ffprobe把静态图也当作单帧视频流
			info.Width = stream.Width
			info.Height = stream.Height
			info.Format = stream.CodecName
			break
		}
	}

	if size, err := strconv.ParseInt(result.Format.Size, 10, 64); err == nil {
		info.Size = size
	}

	return info, nil
}

// NormalizeSheetImage 把过大的扫描件降采样成JPEG，减小送给模型的载荷。
// 尺寸已经合规时原样返回 false 表示未转换。
func NormalizeSheetImage(srcPath, dstPath string) (bool, error) {
	info, err := ProbeImage(srcPath)
	if err != nil {
		return false, err
	}

	if info.Width <= maxSheetDimension && info.Height <= maxSheetDimension {
		return false, nil
	}

	err = ffmpeg.Input(srcPath).
		Output(dstPath, ffmpeg.KwArgs{
			"vf":  fmt.Sprintf("scale='min(%d,iw)':-2", maxSheetDimension),
			"q:v": "3",
		}).
		OverWriteOutput().
		Run()
	if err != nil {
		return false, fmt.Errorf("图片降采样失败: %v", err)
	}
	return true, nil
}
