package migrations

import "gorm.io/gorm"

// migration006Up seeds a starter ballot on an empty database. Deployments
// that already registered candidates keep their own list.
func migration006Up(db *gorm.DB) error {
	var count int64
	if err := db.Table("candidates").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Exec(`
        INSERT INTO candidates (id, name, party, symbol, color) VALUES
            ('7a1c2e90-0b4f-4b8e-9a51-1f6a2d3c4b01', 'Asha Verma', 'Progressive Alliance', '🌱', '#22c55e'),
            ('7a1c2e90-0b4f-4b8e-9a51-1f6a2d3c4b02', 'Rohan Mehta', 'Civic Front', '🏛️', '#3b82f6'),
            ('7a1c2e90-0b4f-4b8e-9a51-1f6a2d3c4b03', 'Meera Iyer', 'Independent', '⭐', '#f59e0b')
        ON CONFLICT (id) DO NOTHING
    `).Error
}

func migration006Down(db *gorm.DB) error {
	return db.Exec(`
        DELETE FROM candidates WHERE id IN (
            '7a1c2e90-0b4f-4b8e-9a51-1f6a2d3c4b01',
            '7a1c2e90-0b4f-4b8e-9a51-1f6a2d3c4b02',
            '7a1c2e90-0b4f-4b8e-9a51-1f6a2d3c4b03'
        )
    `).Error
}
