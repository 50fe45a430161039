package autoload

// Import all middleware subpackages for side-effect registration.
import (
	_ "plancal/middlewares/delay"
	_ "plancal/middlewares/eventlog"
	_ "plancal/middlewares/tokenbudget"
)
