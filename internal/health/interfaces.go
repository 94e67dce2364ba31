package health

import "context"

// DatabaseInterface определяет интерфейс для проверки здоровья базы данных
type DatabaseInterface interface {
	PingContext(ctx context.Context) error
}

// CheckFunc - дополнительная проверка компонента
type CheckFunc func(ctx context.Context) error
