package counter

import "runtime"

// Unsafe 未做任何同步的计数器：读-改-写三步之间没有互斥，
// 并发调用时后写的结果会覆盖先写的结果，丢失更新。这是要演示的现象，不是要修的bug。
// 结果只会偏小，不会超过实际调用Increment的次数。
//
// 用 go test -race 运行并发用例会报 DATA RACE。
type Unsafe struct {
	value int64
	yield bool
}

// NewUnsafe yield为true时在读和写之间调用runtime.Gosched，小规模场景也容易复现丢失更新
func NewUnsafe(yield bool) *Unsafe {
	return &Unsafe{yield: yield}
}

func (c *Unsafe) Increment() {
	v := c.value
	if c.yield {
		runtime.Gosched()
	}
	c.value = v + 1
}

func (c *Unsafe) Value() int64 {
	return c.value
}
