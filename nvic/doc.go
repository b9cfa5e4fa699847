// Package nvic configures the Nested Vectored Interrupt Controller and the
// configurable system exceptions of an ARMv7-M core.
//
// A Controller drives the NVIC enable, pending and priority register banks
// and the system handler control and priority registers through an
// mmio.Bus. Use Hardware on the target and NewSimulator off-target.
//
// Enabling, disabling and pending an interrupt are single stores to
// write-one-to-act registers. Priority updates and exception enables are
// read-modify-write sequences: the caller must ensure nothing else modifies
// the same register concurrently, typically by masking interrupts around the
// call. WithLocker serialises the controller's own sequences for hosted use.
//
// Register layout (ARMv7-M):
//
//	0xE000E100  ISER0-4  set-enable
//	0xE000E180  ICER0-4  clear-enable
//	0xE000E200  ISPR0-4  set-pending
//	0xE000E280  ICPR0-4  clear-pending
//	0xE000E400  IPR0-39  priority, four 8-bit fields per register
//	0xE000ED18  SHPR1-3  system handler priority
//	0xE000ED24  SHCSR    system handler control and state
package nvic
