package handler

import "strconv"

const uploadFormOverhead = 1 << 20

func formatUploadLimit(bytes int64) string {
	const mb = 1024 * 1024
	if bytes <= 0 {
		return "0MB"
	}
	value := bytes / mb
	if value <= 0 {
		value = 1
	}
	return strconv.FormatInt(value, 10) + "MB"
}

// requestBodyLimit bounds a multipart body: the file ceiling plus room for
// the other form fields and boundaries.
func requestBodyLimit(maxFile int64) int64 {
	if maxFile <= 0 {
		return 0
	}
	return maxFile + uploadFormOverhead
}
