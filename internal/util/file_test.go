package util

import "testing"

func TestAllowedSheetFile(t *testing.T) {
	allowed := []string{"scan.jpg", "scan.JPEG", "page.png", "sheet.webp", "exam.pdf"}
	for _, name := range allowed {
		if !AllowedSheetFile(name) {
			t.Errorf("%s should be allowed", name)
		}
	}

	rejected := []string{"notes.txt", "video.mp4", "archive.zip", "noext"}
	for _, name := range rejected {
		if AllowedSheetFile(name) {
			t.Errorf("%s should be rejected", name)
		}
	}
}

func TestIsImage(t *testing.T) {
	if !IsImage("image/png") {
		t.Error("image/png is an image")
	}
	if IsImage("application/pdf") {
		t.Error("application/pdf is not an image")
	}
}
