package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/clima/internal/clima/service"
	"github.com/aussiebroadwan/clima/internal/clima/store"
	"github.com/aussiebroadwan/clima/internal/clima/store/drivers/badgerkv"
	"github.com/aussiebroadwan/clima/internal/clima/store/drivers/jsonfile"
	"github.com/aussiebroadwan/clima/internal/clima/store/drivers/memory"
	"github.com/aussiebroadwan/clima/internal/clima/store/drivers/sqlite"
	"github.com/aussiebroadwan/clima/pkg/cryptox"
	"github.com/aussiebroadwan/clima/pkg/jwtx"
)

// InitCipher builds the field cipher from a hex key or, failing that, a
// passphrase stretched with the per-install salt.
func InitCipher(cfg CryptoConfig, logger *slog.Logger) (*cryptox.FieldCipher, error) {
	var (
		key []byte
		err error
	)
	if cfg.EncryptionKey != "" {
		key, err = cryptox.ParseHexKey(cfg.EncryptionKey)
	} else {
		key, err = cryptox.DeriveKey(cfg.Passphrase, cfg.SaltFile)
		logger.Info("field key derived from passphrase", "salt_file", cfg.SaltFile)
	}
	if err != nil {
		return nil, fmt.Errorf("encryption key: %w", err)
	}

	var opts []cryptox.CipherOption
	if cfg.LegacyCBC {
		opts = append(opts, cryptox.WithLegacyCBC())
		logger.Warn("legacy CBC decryption enabled")
	}
	return cryptox.NewFieldCipher(key, opts...)
}

// InitHasher loads the pepper, creating it on first start.
func InitHasher(cfg CryptoConfig) (*cryptox.PasswordHasher, error) {
	pepper, err := cryptox.LoadOrCreateSecret(cfg.PepperFile, cryptox.PepperSize)
	if err != nil {
		return nil, fmt.Errorf("pepper: %w", err)
	}
	return cryptox.NewPasswordHasher(pepper), nil
}

// InitSessions builds the HS256 session issuer and resolver.
func InitSessions(cfg JWTConfig, c *cryptox.FieldCipher) (*service.SessionService, error) {
	secret := []byte(cfg.Secret)
	signer, err := jwtx.NewSignerHS256(secret)
	if err != nil {
		return nil, fmt.Errorf("jwt signer: %w", err)
	}
	verifier, err := jwtx.NewVerifierHS256(secret, jwtx.VerifyOptions{Issuer: cfg.Issuer})
	if err != nil {
		return nil, fmt.Errorf("jwt verifier: %w", err)
	}
	return &service.SessionService{
		Cipher:   c,
		Signer:   signer,
		Verifier: verifier,
		Issuer:   cfg.Issuer,
		TTL:      cfg.TTL,
	}, nil
}

// OpenStore opens the configured driver and loads its contents.
func OpenStore(ctx context.Context, cfg StoreConfig, match store.EmailMatcher, logger *slog.Logger) (store.Store, error) {
	switch cfg.Driver {
	case DriverMemory:
		logger.Warn("memory store selected, users are lost on restart")
		return memory.New(match, nil), nil

	case DriverFile:
		return jsonfile.Open(ctx, cfg.UsersFile, match)

	case DriverBadger:
		return badgerkv.Open(ctx, cfg.BadgerDir, match)

	case DriverSQLite:
		dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", cfg.DatabaseFile)
		db, err := sqlite.NewStore(dsn, match)
		if err != nil {
			return nil, err
		}
		if err := db.ApplyMigrations(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		logger.Info("database migrations applied successfully")
		return db, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
