package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/khesht/khesht-api/internal/config"
	"github.com/khesht/khesht-api/internal/llm"
	"github.com/khesht/khesht-api/internal/llm/openai"
	"github.com/khesht/khesht-api/internal/repository/chromem"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const summaryPrompt = `You are a helpful assistant that summarizes room listings for accommodations such as hotels, lodges, and guesthouses. Your goal is to create a concise yet informative summary that helps users make decisions about renting a place to stay.

INSTRUCTIONS:
- Always include the city name and province name of the accommodation.
- Clearly summarize key room details such as type, price, capacity, and amenities.
- Include location information, such as distance to the city center and proximity to the beach.
- Highlight offered services and facilities, like breakfast, a swimming pool, or parking.
- Include user feedback, such as average rating and number of reviews.
- Keep the summary concise and avoid filler content.
`

// roomDetail mirrors one entry of the crawled listings file. Summary may be
// precomputed; when absent it is generated before indexing.
type roomDetail struct {
	ID          json.Number `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	MinPrice    json.Number `json:"min_price"`
	URL         string      `json:"url"`
	Summary     string      `json:"summary"`
	City        struct {
		Name string `json:"name"`
	} `json:"city"`
	Ratings struct {
		Count json.Number `json:"count"`
		Total json.Number `json:"total"`
	} `json:"ratings"`
	Pictures []struct {
		URL string `json:"url"`
	} `json:"pictures"`
}

func main() {
	input := flag.String("input", "room_details.json", "path to the crawled listings file")
	limit := flag.Int("limit", 0, "index at most this many listings (0 = all)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, relying on environment")
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	data, err := os.ReadFile(*input)
	if err != nil {
		log.Fatal().Err(err).Str("path", *input).Msg("Failed to read listings file")
	}

	var rooms []roomDetail
	if err := json.Unmarshal(data, &rooms); err != nil {
		log.Fatal().Err(err).Msg("Failed to parse listings file")
	}
	if *limit > 0 && len(rooms) > *limit {
		rooms = rooms[:*limit]
	}

	index, err := chromem.NewIndex(cfg.VectorStore, chromem.OpenAIEmbedding(cfg.LLM.OpenAI.APIKey))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open vector index")
	}

	summarizer := openai.NewProvider(cfg.LLM.OpenAI.APIKey, "gpt-4o-mini")

	ctx := context.Background()
	indexed := 0

	for i, room := range rooms {
		summary := room.Summary
		if summary == "" {
			summary, err = summarize(ctx, summarizer, room)
			if err != nil {
				log.Warn().Err(err).Str("title", room.Title).Msg("Skipping listing, summary failed")
				continue
			}
		}

		id := room.ID.String()
		if id == "" {
			id = fmt.Sprintf("%d", i)
		}

		if err := index.Upsert(ctx, "room_"+id, summary, metadataFor(room)); err != nil {
			log.Warn().Err(err).Str("title", room.Title).Msg("Skipping listing, indexing failed")
			continue
		}
		indexed++

		if indexed%25 == 0 {
			log.Info().Int("indexed", indexed).Int("total", len(rooms)).Msg("Warmup progress")
		}
	}

	log.Info().Int("indexed", indexed).Int("documents", index.Count()).Msg("Warmup complete")
}

// summarize asks the model for a short Persian summary of the raw listing
func summarize(ctx context.Context, provider llm.Provider, room roomDetail) (string, error) {
	raw, err := json.Marshal(room)
	if err != nil {
		return "", err
	}

	resp, err := provider.Chat(ctx, llm.Request{
		SystemPrompt: summaryPrompt,
		UserMessage:  "Please provide a brief summary of this listing in Persian: " + string(raw),
	}, "")
	if err != nil {
		return "", err
	}
	if resp.Content == "" {
		return "", fmt.Errorf("empty summary")
	}
	return resp.Content, nil
}

// metadataFor extracts the string metadata served back by the retrieval API
func metadataFor(room roomDetail) map[string]string {
	metadata := map[string]string{
		"id":            room.ID.String(),
		"title":         room.Title,
		"description":   room.Description,
		"min_price":     room.MinPrice.String(),
		"city":          room.City.Name,
		"rating":        room.Ratings.Total.String(),
		"reviews_count": room.Ratings.Count.String(),
		"url":           room.URL,
	}
	if len(room.Pictures) > 0 {
		metadata["image_url"] = room.Pictures[0].URL
	}

	// Drop empty values so the retriever's fallbacks apply cleanly
	for k, v := range metadata {
		if v == "" {
			delete(metadata, k)
		}
	}
	return metadata
}
