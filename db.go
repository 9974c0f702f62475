package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/allora-network/cosmos-txn-decoder/types"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const (
	TB_BLOCK_INFO   = "block_info"
	TB_TXN_INFO     = "txn_info"
	TB_DECODE_FAILS = "decode_failures"
)

var dbPool *pgxpool.Pool

// verifyUri escapes the password of a postgres connection string so that
// passwords containing reserved characters still parse.
func verifyUri(originalPath string) string {
	var res = ""
	parts := strings.Split(originalPath, "@")
	if len(parts) != 2 {
		log.Error().Msg("Invalid URL format")
		return res
	}

	protocolAndUserInfo := strings.Split(parts[0], "//")
	if len(protocolAndUserInfo) != 2 {
		log.Error().Msg("Invalid userinfo format")
		return res
	}

	protocol := protocolAndUserInfo[0]
	userInfo := protocolAndUserInfo[1]

	credParts := strings.SplitN(userInfo, ":", 2)
	if len(credParts) != 2 {
		log.Error().Msg("Invalid credentials format")
		return res
	}

	username := credParts[0]
	encodedPassword := url.QueryEscape(credParts[1])

	return fmt.Sprintf("%s//%s:%s@%s", protocol, username, encodedPassword, parts[1])
}

func initDB(ctx context.Context, dataSourceName string) error {
	dbConfig, err := pgxpool.ParseConfig(verifyUri(dataSourceName))
	if err != nil {
		log.Error().Err(err).Msg("Failed to create a config")
		return err
	}
	dbPool, err = pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		log.Error().Err(err).Msg("Unable to connect to database")
		return err
	}
	return nil
}

func closeDB() {
	if dbPool != nil {
		dbPool.Close()
	}
}

func setupDB(ctx context.Context) error {
	for _, stmt := range []string{
		createBlockInfoTableSQL(),
		createTxnInfoTableSQL(),
		createDecodeFailuresTableSQL(),
	} {
		if err := executeSQL(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func executeSQL(ctx context.Context, sqlStatement string) error {
	if _, err := dbPool.Exec(ctx, sqlStatement); err != nil {
		log.Error().Err(err).Msg("Failed to execute SQL statement")
		return err
	}
	return nil
}

func createBlockInfoTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS ` + TB_BLOCK_INFO + ` (
		block_hash VARCHAR(66) PRIMARY KEY,
		height BIGINT NOT NULL,
		block_time TIMESTAMP NOT NULL
	);`
}

func createTxnInfoTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS ` + TB_TXN_INFO + ` (
		tx_hash VARCHAR(66) PRIMARY KEY,
		sender VARCHAR(255) NOT NULL,
		sender_digest VARCHAR(66) NOT NULL,
		nonce NUMERIC NOT NULL,
		recipient VARCHAR(255),
		recipient_digest VARCHAR(66),
		gas_limit NUMERIC NOT NULL,
		gas_price NUMERIC NOT NULL,
		gas_used NUMERIC,
		decoded_at TIMESTAMP NOT NULL DEFAULT now()
	);`
}

func createDecodeFailuresTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS ` + TB_DECODE_FAILS + ` (
		id SERIAL PRIMARY KEY,
		tx_hash VARCHAR(66) NOT NULL,
		kind VARCHAR(64) NOT NULL,
		error TEXT NOT NULL,
		failed_at TIMESTAMP NOT NULL DEFAULT now()
	);`
}

func insertBlockInfo(ctx context.Context, block *types.BlockInfo) error {
	_, err := dbPool.Exec(ctx, `
		INSERT INTO `+TB_BLOCK_INFO+` (
			block_hash,
			height,
			block_time
		) VALUES ($1, $2, $3)`,
		block.Hash.Hex(), block.Number, time.Unix(int64(block.Timestamp), 0).UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			log.Info().Msgf("Block %s already exists in the database. Skipping insert.", block.Hash.Hex())
			return nil
		}
		return err
	}
	return nil
}

func insertTxnInfo(ctx context.Context, txn *types.TxnInfo) error {
	var recipient, recipientDigest *string
	if txn.Recipient != nil {
		r, d := txn.Recipient.String(), txn.Recipient.Digest().Hex()
		recipient, recipientDigest = &r, &d
	}
	var gasUsed *string
	if txn.Receipt != nil && txn.Receipt.GasUsed != nil {
		g := txn.Receipt.GasUsed.Dec()
		gasUsed = &g
	}

	_, err := dbPool.Exec(ctx, `
		INSERT INTO `+TB_TXN_INFO+` (
			tx_hash,
			sender,
			sender_digest,
			nonce,
			recipient,
			recipient_digest,
			gas_limit,
			gas_price,
			gas_used
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		txn.Hash.Hex(), txn.Sender.String(), txn.Sender.Digest().Hex(), fmt.Sprint(txn.Nonce),
		recipient, recipientDigest, txn.GasLimit.Dec(), txn.GasPrice.Dec(), gasUsed,
	)
	if err != nil {
		if isUniqueViolation(err) {
			log.Info().Msgf("Transaction %s already exists in the database. Skipping insert.", txn.Hash.Hex())
			return nil
		}
		return err
	}
	return nil
}

func insertDecodeFailure(ctx context.Context, txHash, kind string, decodeErr error) error {
	_, err := dbPool.Exec(ctx, `
		INSERT INTO `+TB_DECODE_FAILS+` (
			tx_hash,
			kind,
			error
		) VALUES ($1, $2, $3)`,
		txHash, kind, decodeErr.Error(),
	)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
