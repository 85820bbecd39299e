// Package inflight не даёт запустить одну и ту же операцию дважды одновременно
// (повторное оформление той же корзины, повторный перевод того же заказа).
package inflight

import "sync"

// Guard одноместная блокировка по ключу. В отличие от ожидания на мьютексе,
// повторный вызов с занятым ключом сразу получает отказ.
type Guard struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

func NewGuard() *Guard {
	return &Guard{busy: make(map[string]struct{})}
}

// TryAcquire занимает ключ. Если ключ уже занят, возвращает ok == false.
// release нужно вызвать ровно один раз.
func (g *Guard) TryAcquire(key string) (release func(), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, taken := g.busy[key]; taken {
		return nil, false
	}
	g.busy[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.busy, key)
			g.mu.Unlock()
		})
	}, true
}
