package transcription

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"voicenotes/domain/voicenote"
	"voicenotes/infrastructure/provider"
	"voicenotes/infrastructure/retry"
	"voicenotes/pkg/logger"
)

// Chain implements voicenote.Transcriber over an ordered provider list. Each
// provider gets a full retry budget before the chain falls through to the
// next one. When every provider fails, the primary provider's error is
// returned; fallback errors are only logged.
type Chain struct {
	providers []Provider
	audio     voicenote.AudioStore
	retryCfg  retry.Config
}

func NewChain(audio voicenote.AudioStore, retryCfg retry.Config, providers ...Provider) *Chain {
	return &Chain{
		providers: providers,
		audio:     audio,
		retryCfg:  retryCfg,
	}
}

var _ voicenote.Transcriber = (*Chain)(nil)

func (c *Chain) Transcribe(ctx context.Context, audioRef string, language voicenote.Language, opts voicenote.TranscribeOptions) (*voicenote.TranscriptionResult, error) {
	if len(c.providers) == 0 {
		return nil, fmt.Errorf("no transcription providers configured")
	}

	data, err := c.audio.Read(ctx, audioRef)
	if err != nil {
		return nil, fmt.Errorf("read audio %s: %w", audioRef, err)
	}

	var primaryErr error
	for i, p := range c.providers {
		var result *voicenote.TranscriptionResult
		err := retry.Do(ctx, c.retryCfg, provider.IsRetryable, func(ctx context.Context) error {
			r, err := p.Transcribe(ctx, data, audioRef, language, opts)
			if err != nil {
				return err
			}
			result = r
			return nil
		})
		if err == nil {
			if i > 0 {
				logger.Warn("transcription served by fallback provider",
					zap.String("provider", p.Name()),
					zap.Error(primaryErr))
			}
			return result, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		if i == 0 {
			primaryErr = err
		} else {
			logger.Warn("fallback transcription provider failed",
				zap.String("provider", p.Name()),
				zap.Error(err))
		}
	}

	return nil, primaryErr
}
