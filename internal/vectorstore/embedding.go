package vectorstore

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
)

// EmbeddingDim is the fixed output dimensionality of HashEmbedding.
const EmbeddingDim = 10

// HashEmbedding computes a deterministic placeholder embedding from text:
// the md5 digest is sliced into 3-hex-digit groups, each scaled to [-1, 1].
// Same text always yields the same vector; different text very likely
// yields a different one. Not a semantic embedding.
func HashEmbedding(text string) []float64 {
	digest := md5.Sum([]byte(text))
	hexDigest := hex.EncodeToString(digest[:])

	embedding := make([]float64, 0, EmbeddingDim)
	for i := 0; i+3 <= len(hexDigest); i += 3 {
		value, err := strconv.ParseUint(hexDigest[i:i+3], 16, 64)
		if err != nil {
			continue
		}
		embedding = append(embedding, float64(value)/4095*2-1)
		if len(embedding) >= EmbeddingDim {
			break
		}
	}
	return embedding
}
