package embedding

import (
	"context"
	"fmt"

	"github.com/asalazar/cv-features/internal/types"
)

// EmbedWorks embeds title, institution and brief of every work record in
// one batched call per record. The work counter indexes distinct jobs: it
// starts at -1 and increments only for records that carry real date
// information, so a no-date placeholder keeps the counter of the last
// real job instead of claiming a slot of its own.
func EmbedWorks(ctx context.Context, embedder Embedder, works []types.WorkRecord) ([]types.EmbeddedWork, error) {
	if len(works) == 0 {
		return nil, nil
	}

	embedded := make([]types.EmbeddedWork, 0, len(works))
	counter := -1
	for _, w := range works {
		if !w.IsSentinel() {
			counter++
		}
		vectors, err := embedder.Embed(ctx, []string{w.Title, w.Institution, w.Brief})
		if err != nil {
			return nil, fmt.Errorf("embedding work record %q: %w", w.Title, err)
		}
		management := 0
		if w.Management {
			management = 1
		}
		embedded = append(embedded, types.EmbeddedWork{
			Title:       vectors[0],
			Institution: vectors[1],
			Brief:       vectors[2],
			Management:  management,
			WorkCounter: counter,
		})
	}
	return embedded, nil
}

// EmbedCertifications embeds title and brief of every certification.
func EmbedCertifications(ctx context.Context, embedder Embedder, certs []types.CertificationRecord) ([]types.EmbeddedCertification, error) {
	if len(certs) == 0 {
		return nil, nil
	}

	embedded := make([]types.EmbeddedCertification, 0, len(certs))
	for _, c := range certs {
		vectors, err := embedder.Embed(ctx, []string{c.Title, c.Brief})
		if err != nil {
			return nil, fmt.Errorf("embedding certification %q: %w", c.Title, err)
		}
		embedded = append(embedded, types.EmbeddedCertification{
			Title: vectors[0],
			Brief: vectors[1],
		})
	}
	return embedded, nil
}

// EmbedEducation keeps only the bachelor record and the highest degree
// reached. The max-level record is the first one holding the maximum;
// the bachelor record is the last one with bachelor level, later
// occurrences overwriting earlier ones. When no bachelor-level record
// exists the last education record stands in for it. Both degrees go
// through a single batched call, bachelor fields first. When the highest
// level is exactly bachelor only the bachelor key is emitted; at
// secondary level or below no embedding call is made at all.
func EmbedEducation(ctx context.Context, embedder Embedder, education []types.EducationRecord) (types.EmbeddedEducation, error) {
	if len(education) == 0 {
		return types.EmbeddedEducation{HighestLevel: types.LevelUnknown}, nil
	}

	maxLevel, mIdx := types.LevelUnknown, -1
	bIdx := -1
	for idx, edu := range education {
		if edu.Level > maxLevel {
			maxLevel = edu.Level
			mIdx = idx
		}
		if edu.Level == types.LevelBachelor {
			bIdx = idx
		}
	}

	result := types.EmbeddedEducation{HighestLevel: maxLevel}
	if maxLevel <= 0 {
		return result, nil
	}
	if bIdx < 0 {
		bIdx = len(education) - 1
	}

	toEmbed := []string{education[bIdx].Title, education[bIdx].Institution}
	if maxLevel != types.LevelBachelor {
		toEmbed = append(toEmbed, education[mIdx].Title, education[mIdx].Institution)
	}

	vectors, err := embedder.Embed(ctx, toEmbed)
	if err != nil {
		return types.EmbeddedEducation{}, fmt.Errorf("embedding education: %w", err)
	}

	result.Bachelor = &types.EmbeddedDegree{Title: vectors[0], Institution: vectors[1]}
	if maxLevel != types.LevelBachelor {
		result.MaxEducation = &types.EmbeddedDegree{Title: vectors[2], Institution: vectors[3]}
	}
	return result, nil
}
