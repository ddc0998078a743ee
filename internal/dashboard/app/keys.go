package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/phishguard/dashboard/pkg/cryptox"
	"github.com/phishguard/dashboard/pkg/jwtx"
)

// InitSigningKey loads the Ed25519 signing key from the configured file, or
// generates an ephemeral one when no file is set. With an ephemeral key every
// token from a previous run becomes invalid on restart, which is fine for dev
// and single-instance setups but breaks multi-instance deployments: all
// instances must share one key file so any of them can verify any token.
func InitSigningKey(cfg Config, logger *slog.Logger) (*jwtx.EdDSASigner, error) {
	var pemKey []byte

	if cfg.SigningKeyFile != "" {
		data, err := os.ReadFile(cfg.SigningKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read signing key file: %w", err)
		}
		pemKey = data
		logger.Info("loaded signing key", "path", cfg.SigningKeyFile, "kid", cfg.SigningKeyID)
	} else {
		data, err := cryptox.GenerateEd25519Key()
		if err != nil {
			return nil, fmt.Errorf("failed to generate ephemeral signing key: %w", err)
		}
		pemKey = data
		logger.Warn("no signing key file configured, generated ephemeral key; " +
			"all previously issued tokens are now invalid")
	}

	signer, err := jwtx.NewSignerEdDSA(cfg.SigningKeyID, pemKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Ed25519 signer: %w", err)
	}
	if err := signer.Validate(); err != nil {
		return nil, fmt.Errorf("signing key failed validation: %w", err)
	}

	return signer, nil
}
