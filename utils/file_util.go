package utils

import (
	"os"
	"strings"
)

func Exists(filePath string) bool {
	_, err := os.Stat(filePath)
	return err == nil
}

// ReadTrimmed reads a small text file (e.g. a docker secret) without surrounding whitespace.
func ReadTrimmed(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

/*
IsDocker
checks the usual markers of running inside a container
*/
func IsDocker() bool {
	if Exists("/.dockerenv") {
		return true
	}
	data, err := os.ReadFile("/proc/1/cgroup")
	if err != nil {
		return false
	}
	text := string(data)
	return strings.Contains(text, "docker") || strings.Contains(text, "containerd")
}
