package migrations

import "gorm.io/gorm"

// migration001Up creates extensions and custom types
func migration001Up(db *gorm.DB) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return err
	}

	return db.Exec(`
        DO $$ BEGIN
            CREATE TYPE voter_role AS ENUM ('voter', 'admin');
        EXCEPTION
            WHEN duplicate_object THEN NULL;
        END $$
    `).Error
}

// migration001Down drops custom types
func migration001Down(db *gorm.DB) error {
	// NOTE: the uuid extension stays, other schemas may rely on it
	return db.Exec("DROP TYPE IF EXISTS voter_role CASCADE").Error
}
