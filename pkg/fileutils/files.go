package fileutils

import (
	"net/url"
	"os"
	"strings"
)

var (
	replaceChars = []string{"\"", "*", "/", ":", "<", ">", "?", "\\", "|", "."}
	removeChars  = []string{"\t", "\r", "\n"}
)

// FileExists checks if a file exsists
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

// IsDir checks if the path exists and is a folder
func IsDir(filename string) bool {
	f, err := os.Stat(filename)
	return err == nil && f.IsDir()
}

// ValidPathName return a valid file name part, all non file chars will be changed to _
func ValidPathName(s string) string {
	s, _ = url.PathUnescape(s)
	for _, remove := range removeChars {
		s = strings.ReplaceAll(s, remove, "")
	}
	for _, replace := range replaceChars {
		s = strings.ReplaceAll(s, replace, "_")
	}
	return s
}
