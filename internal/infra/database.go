package infra

import (
	"fmt"

	"cafeops/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates/updates the schema. Also used by integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Produto{},
		&model.Cliente{},
		&model.TransacaoFidelidade{},
		&model.Caixa{},
		&model.PagamentoCaixa{},
		&model.OperacaoCaixa{},
		&model.Pedido{},
		&model.ItemPedido{},
		&model.PagamentoPedido{},
		&model.Lancamento{},
		&model.Reconciliacao{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement is guarded by an existence check so re-running is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// At most one open register, enforced at the database level
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_caixas_um_aberto') THEN
		    CREATE UNIQUE INDEX idx_caixas_um_aberto ON caixas ((status)) WHERE status = 'aberto';
		  END IF;
		END $$`,
		// Ledger lookups during import: fitid OR (data, descricao) pairs
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_lancamentos_data_descricao') THEN
		    CREATE INDEX idx_lancamentos_data_descricao ON lancamentos (data, descricao_original);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
