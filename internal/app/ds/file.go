package ds

// Таблица подтверждающих файлов. Содержимое хранится как blob в БД,
// RequestID используется только для поиска, не для каскадной логики.
type File struct {
	ID        uint   `gorm:"primaryKey"`
	FileName  string `gorm:"type:varchar(255);not null"`
	FileData  []byte `gorm:"type:bytea;not null"`
	RequestID uint   `gorm:"not null;index"`
}
