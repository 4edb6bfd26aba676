package core

import (
	"fmt"
	"hash/fnv"
)

func HashContent(content []byte) string {
	h := fnv.New64a()
	_, _ = h.Write(content)
	return fmt.Sprintf("%016x", h.Sum64())
}

func FingerprintName(base, ext string, content []byte) string {
	return base + "-" + HashContent(content)[:10] + ext
}
