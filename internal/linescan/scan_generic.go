//go:build !amd64

package linescan

func init() {
	scanImpl = scanGeneric
}
