package core

import "testing"

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		expected AttachmentKind
	}{
		{"shot.png", KindImage},
		{"shot.PNG", KindImage},
		{"a/b/photo.jpg", KindImage},
		{"photo.jpeg", KindImage},
		{"anim.gif", KindImage},
		{"pic.webp", KindImage},
		{`C:\out\shot.png`, KindImage},
		{"video.webm", KindGeneric},
		{"trace.zip", KindGeneric},
		{"invoice.txt", KindGeneric},
		{"noext", KindGeneric},
		{"", KindGeneric},
	}

	for _, tt := range tests {
		if got := KindOf(tt.name); got != tt.expected {
			t.Errorf("KindOf(%q) = %v, want %v", tt.name, got, tt.expected)
		}
	}
}
