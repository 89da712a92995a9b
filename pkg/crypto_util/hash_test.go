package crypto_util

import (
	"testing"
)

func TestSHA256Hex(t *testing.T) {
	// 已知向量: SHA256("abc")
	got := SHA256Hex([]byte("abc"))
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Errorf("SHA256Hex 不匹配。\n预期: %s\n实际: %s", want, got)
	}
}

func TestKeccak256Hex(t *testing.T) {
	// 已知向量: Keccak256("") — 以太坊生态广泛使用的空哈希
	got := Keccak256Hex(nil)
	want := "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"
	if got != want {
		t.Errorf("Keccak256Hex 不匹配。\n预期: %s\n实际: %s", want, got)
	}
}

func TestDoubleSHA256(t *testing.T) {
	data := []byte("tron-wallet")
	once := SHA256(data)
	twice := SHA256(once)

	got := DoubleSHA256(data)
	for i := range twice {
		if got[i] != twice[i] {
			t.Fatalf("DoubleSHA256 与 SHA256(SHA256(x)) 不一致")
		}
	}
}
