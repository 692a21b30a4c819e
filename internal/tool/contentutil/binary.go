package contentutil

// BinarySampleSize is the number of bytes inspected for null bytes when
// detecting binary content. This matches Git's heuristic (8000 bytes since
// 2005), which is well tested across real-world file formats.
const BinarySampleSize = 8000

// IsBinaryContent reports whether the content looks like binary data by
// scanning a bounded prefix for null bytes. UTF-16 and UTF-32 BOMs are
// recognised first so those text encodings are not misclassified.
func IsBinaryContent(content []byte) bool {
	if len(content) >= 2 {
		if (content[0] == 0xFF && content[1] == 0xFE) ||
			(content[0] == 0xFE && content[1] == 0xFF) {
			return false // UTF-16 BOM
		}
	}
	if len(content) >= 4 {
		if (content[0] == 0xFF && content[1] == 0xFE && content[2] == 0x00 && content[3] == 0x00) ||
			(content[0] == 0x00 && content[1] == 0x00 && content[2] == 0xFE && content[3] == 0xFF) {
			return false // UTF-32 BOM
		}
	}

	sampleSize := min(len(content), BinarySampleSize)
	for i := 0; i < sampleSize; i++ {
		if content[i] == 0 {
			return true
		}
	}
	return false
}
