package trap

import (
	"errors"
	"testing"

	"actor-notes/goprincipleandpractise/actor/mailbox"
)

/*
陷阱演示测试。

执行命令:

	go test -run '^Test' -count=1 -v .

带 -race 时TestLostUpdate会跳过，想看 WARNING: DATA RACE 就去掉Skip手动运行。
*/

func TestLostUpdate(t *testing.T) {
	if raceEnabled {
		t.Skip("跳过：此测试会触发data race，不带 -race 运行")
	}
	unsafe, serialized := LostUpdate()
	if serialized != 100000 {
		t.Fatalf("actor = %d, want 100000", serialized)
	}
	if unsafe > 100000 {
		t.Fatalf("unsafe = %d, want <= 100000", unsafe)
	}
	t.Logf("unsafe = %d (期望100000，实际可能小于100000)", unsafe)
}

func TestCopiedMutex(t *testing.T) {
	if got := CopiedMutex(); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
}

func TestStoppedActor(t *testing.T) {
	if err := StoppedActor(); !errors.Is(err, mailbox.ErrStopped) {
		t.Fatalf("err = %v, want ErrStopped", err)
	}
}
