package eventbus

import "sync"

var (
	globalBus  Bus
	globalOnce sync.Once
)

// Get возвращает глобальную шину процесса, создавая ее при первом
// обращении
func Get() Bus {
	globalOnce.Do(func() {
		if globalBus == nil {
			globalBus = NewMemoryBus()
		}
	})
	return globalBus
}
