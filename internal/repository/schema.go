package repository

const schema = `
CREATE TABLE IF NOT EXISTS balance (
	id SMALLINT PRIMARY KEY CHECK (id = 1),
	amount NUMERIC NOT NULL CHECK (amount >= 0),
	last_updated TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS asset_catalogue (
	symbol TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	type TEXT NOT NULL,
	open NUMERIC NOT NULL,
	high NUMERIC NOT NULL,
	low NUMERIC NOT NULL,
	close NUMERIC NOT NULL,
	price NUMERIC NOT NULL,
	volume BIGINT NOT NULL,
	currency TEXT NOT NULL DEFAULT '',
	exchange TEXT NOT NULL DEFAULT '',
	last_updated TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS portfolio_asset (
	symbol TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	type TEXT NOT NULL,
	quantity BIGINT NOT NULL CHECK (quantity > 0),
	avg_buy_price NUMERIC NOT NULL CHECK (avg_buy_price >= 0),
	last_traded_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS asset_history (
	id BIGSERIAL PRIMARY KEY,
	symbol TEXT NOT NULL,
	type TEXT NOT NULL,
	day DATE NOT NULL,
	open NUMERIC NOT NULL,
	high NUMERIC NOT NULL,
	low NUMERIC NOT NULL,
	close NUMERIC NOT NULL,
	volume BIGINT NOT NULL,
	UNIQUE (symbol, day)
);

CREATE TABLE IF NOT EXISTS trade_log (
	id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	quantity BIGINT NOT NULL,
	unit_price NUMERIC NOT NULL,
	amount NUMERIC NOT NULL,
	executed_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_asset_history_symbol ON asset_history(symbol);
CREATE INDEX IF NOT EXISTS idx_trade_log_symbol ON trade_log(symbol);
`
