package service

import (
	"hash/fnv"
	"math"
	"strings"

	pgvector "github.com/pgvector/pgvector-go"

	"github.com/nandoesporte/gut59/backend/internal/models"
	"github.com/nandoesporte/gut59/backend/internal/plan"
)

// GenerateEmbedding returns a deterministic embedding for food names and queries.
// Character trigrams of the folded text are hashed into FoodEmbeddingDims buckets
// and the vector is L2-normalised, so similar spellings land close together.
func GenerateEmbedding(text string) pgvector.Vector {
	vec := make([]float32, models.FoodEmbeddingDims)
	for _, word := range strings.Fields(plan.FoldText(text)) {
		padded := []rune(" " + word + " ")
		for i := 0; i+3 <= len(padded); i++ {
			h := fnv.New32a()
			h.Write([]byte(string(padded[i : i+3])))
			vec[h.Sum32()%uint32(models.FoodEmbeddingDims)]++
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}
	return pgvector.NewVector(vec)
}
