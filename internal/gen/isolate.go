package gen

import (
	"fmt"
)

// SafeInit вызывает Init генератора, превращая панику в обычную ошибку.
func SafeInit(g Generator, ic *InitContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator %q panicked during init: %v", g.Name(), r)
		}
	}()
	if initErr := g.Init(ic); initErr != nil {
		return fmt.Errorf("generator %q failed to initialize: %w", g.Name(), initErr)
	}
	return nil
}

// SafeExecute вызывает Execute генератора, превращая панику в обычную ошибку.
// Фатальная ошибка конфигурации (коллизия hint name) возвращается как есть:
// драйвер обязан прервать запуск, а не превратить её в warning.
func SafeExecute(g Generator, ec *ExecContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			// Паника поверх фатальной ошибки не должна её маскировать.
			if ec.FatalErr() != nil {
				err = ec.FatalErr()
				return
			}
			err = fmt.Errorf("generator %q panicked during execution: %v", g.Name(), r)
		}
	}()
	execErr := g.Execute(ec)
	if ec.FatalErr() != nil {
		return ec.FatalErr()
	}
	if execErr != nil {
		return fmt.Errorf("generator %q failed: %w", g.Name(), execErr)
	}
	return nil
}
