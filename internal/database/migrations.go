package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunMigrations creates the database schema.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS rooms (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			room_number TEXT NOT NULL UNIQUE,
			price DECIMAL(14, 2) NOT NULL,
			capacity INTEGER NOT NULL DEFAULT 1,
			facilities JSONB NOT NULL DEFAULT '[]',
			photos TEXT[] NOT NULL DEFAULT '{}',
			status TEXT NOT NULL DEFAULT 'available',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS tenants (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			phone TEXT NOT NULL,
			email TEXT,
			room_id UUID REFERENCES rooms(id),
			start_date DATE NOT NULL,
			due_date DATE NOT NULL,
			contract_url TEXT,
			id_card_url TEXT,
			status TEXT NOT NULL DEFAULT 'active',
			telegram_chat_id BIGINT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS payments (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			tenant_id UUID NOT NULL REFERENCES tenants(id),
			month TEXT NOT NULL,
			amount DECIMAL(14, 2) NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			payment_method TEXT NOT NULL DEFAULT 'transfer',
			proof_url TEXT,
			qris_url TEXT,
			qris_expired_at TIMESTAMPTZ,
			pay_date TIMESTAMPTZ,
			verified_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS reports (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			tenant_id UUID NOT NULL REFERENCES tenants(id),
			message TEXT NOT NULL,
			photo_url TEXT,
			status TEXT NOT NULL DEFAULT 'open',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS booking (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			phone TEXT NOT NULL,
			room_id UUID NOT NULL REFERENCES rooms(id),
			booking_date DATE NOT NULL,
			dp_amount DECIMAL(14, 2) NOT NULL DEFAULT 0,
			proof_url TEXT,
			id_card_url TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS telegram_sessions (
			chat_id BIGINT PRIMARY KEY,
			state TEXT NOT NULL DEFAULT 'awaiting_room',
			tenant_id UUID REFERENCES tenants(id),
			room_number TEXT,
			temp_data JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_tenants_room_id ON tenants(room_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tenants_status ON tenants(status)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_tenant_id ON payments(tenant_id)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_month ON payments(month)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_status ON payments(status)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_tenant_id ON reports(tenant_id)`,
		`CREATE INDEX IF NOT EXISTS idx_booking_room_id ON booking(room_id)`,
		`CREATE INDEX IF NOT EXISTS idx_booking_status ON booking(status)`,
	}

	for i, migration := range migrations {
		if _, err := pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}
