package journal

const Schema = `
CREATE TABLE IF NOT EXISTS orders (
	run_id    TEXT NOT NULL,
	client    TEXT NOT NULL,
	broker    TEXT NOT NULL,
	symbol    TEXT NOT NULL,
	side      TEXT NOT NULL,
	qty       INTEGER NOT NULL,
	status    TEXT NOT NULL,
	message   TEXT,
	demo      INTEGER NOT NULL DEFAULT 0,
	placed_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_run ON orders(run_id);
CREATE INDEX IF NOT EXISTS idx_orders_placed ON orders(placed_at);
`
