// Package userlock предоставляет реестр мьютексов по идентификатору
// пользователя. Последовательности "проверить-затем-изменить" (проверка
// баланса + списание, проверка флага + пометка купона) выполняются под
// мьютексом конкретного пользователя, поэтому два конкурентных запроса
// одного пользователя не могут пройти проверку до фиксации друг друга.
package userlock

import "sync"

// Registry выдаёт мьютекс для каждого идентификатора пользователя.
// Мьютексы создаются лениво и не освобождаются: количество пользователей
// за время жизни процесса ограничено, а идентификаторы не переиспользуются.
type Registry struct {
	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

// New создает пустой реестр.
func New() *Registry {
	return &Registry{
		locks: make(map[int]*sync.Mutex),
	}
}

// Get возвращает мьютекс пользователя, создавая его при первом обращении.
func (r *Registry) Get(userID int) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	lk, ok := r.locks[userID]
	if !ok {
		lk = &sync.Mutex{}
		r.locks[userID] = lk
	}
	return lk
}
