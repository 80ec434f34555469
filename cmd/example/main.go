package main

import (
	cache "github.com/rajatkb/viscache"
	"github.com/rajatkb/viscache/logging"
	"github.com/rajatkb/viscache/store/memstore"
	"github.com/rajatkb/viscache/value"
)

type greeting struct {
	Text string
}

func encodeGreeting(g greeting) (value.Value, error) {
	return value.Map(map[string]value.Value{
		"text": value.String(g.Text),
	}), nil
}

func decodeGreeting(v value.Value) (greeting, error) {
	return greeting{Text: v.Map["text"].Str}, nil
}

func main() {
	logger := logging.CreateDebugLogger()

	greetings, err := cache.New(cache.Config[greeting]{
		Name:      "greetings",
		Version:   1,
		Kilobytes: 1,
		Encode:    encodeGreeting,
		Decode:    decodeGreeting,
		Store:     memstore.New(),
		Logger:    logger,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to create cache")
		return
	}

	greetings.Add("hello", greeting{Text: "hello world"})

	if g, ok := greetings.Get("hello"); ok {
		logger.Info().Msg(g.Text)
	} else {
		logger.Warn().Msg("hello not found")
	}
}
