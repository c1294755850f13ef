package weeklyhours

import "errors"

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("weeklyhours.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("weeklyhours.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("weeklyhours.repository: failed to scan row")

	// ErrTransactionRequired возвращается, когда ReplaceAll вызван вне транзакции
	ErrTransactionRequired = errors.New("weeklyhours.repository: replace must run inside a transaction")
)
