package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	CartLines() CartRepository
	Roles() RoleRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// checkout（注文作成＋明細作成＋カート全削除）はこの中で全部やる。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
