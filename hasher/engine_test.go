package hasher_test

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/fastcrypt/hasher"
	"github.com/byte4ever/fastcrypt/wordbuf"
)

// reference renders the crypto/sha256 digest of s the same way
// Digest does.
func reference(s string) string {
	sum := sha256.Sum256([]byte(s))

	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func TestDigest_empty_string(t *testing.T) {
	t.Parallel()

	assert.Equal(
		t,
		"47DEQpj8HBSa-_TImW-5JCeuQeRkm5NMpJWZG3hSuFU",
		hasher.Digest(""),
	)
}

func TestDigest_abc(t *testing.T) {
	t.Parallel()

	assert.Equal(
		t,
		"ungWv48Bz-pBQUDeXa4iI7ADYaOWF3qctBD_YfIAFa0",
		hasher.Digest("abc"),
	)
}

func TestFinalize_abc_chain_words(t *testing.T) {
	t.Parallel()

	en := hasher.New()
	require.NoError(t, en.AppendString("abc"))

	assert.Equal(
		t,
		[8]uint32{
			0xba7816bf, 0x8f01cfea, 0x414140de, 0x5dae2223,
			0xb00361a3, 0x96177a9c, 0xb410ff61, 0xf20015ad,
		},
		en.Finalize(),
	)
}

func TestBlock_single_padded_abc_block(t *testing.T) {
	t.Parallel()

	chain := hasher.InitialForTest

	var (
		w [64]uint32
		m [16]uint32
	)

	m[0] = 0x61626380
	m[15] = 24

	hasher.BlockForTest(&chain, &w, m[:])

	assert.Equal(t, uint32(0xba7816bf), chain[0])
	assert.Equal(t, uint32(0xf20015ad), chain[7])
}

func TestDigest_one_million_a(t *testing.T) {
	t.Parallel()

	en := hasher.New()
	chunk := strings.Repeat("a", 1000)

	for range 1000 {
		require.NoError(t, en.AppendString(chunk))
	}

	sum := en.Sum()

	assert.Equal(
		t,
		"cdc76e5c9914fb9281a1c7e284d73e67f1809a48a497200e046d39ccc7112cd0",
		hex.EncodeToString(sum[:]),
	)
}

func TestDigest_padding_boundaries(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 55, 56, 57, 63, 64, 65, 119, 120, 127, 128} {
		msg := strings.Repeat("x", n)

		en := hasher.New()
		require.NoError(t, en.AppendString(msg))

		assert.Equal(
			t,
			sha256.Sum256([]byte(msg)),
			en.Sum(),
			"length %d", n,
		)
	}
}

func TestDigest_long_input_matches_reference(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	for i := range 600 {
		sb.WriteByte(byte(' ' + i%95))
	}

	msg := sb.String()

	assert.Equal(t, reference(msg), hasher.Digest(msg))
}

func TestDigest_always_43_chars_and_decodes(t *testing.T) {
	t.Parallel()

	for _, msg := range []string{"", "a", "hello world", "日本語", strings.Repeat("z", 1000)} {
		got := hasher.Digest(msg)

		require.Len(t, got, hasher.DigestLen)

		raw, err := base64.RawURLEncoding.DecodeString(got)
		require.NoError(t, err)

		want := sha256.Sum256([]byte(msg))
		assert.Equal(t, want[:], raw)
	}
}

func TestAppend_split_equals_one_shot(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	for i := range 150 {
		sb.WriteByte(byte('a' + i%26))
	}

	msg := sb.String()
	want := sha256.Sum256([]byte(msg))

	for i := 0; i <= len(msg); i++ {
		en := hasher.New()
		require.NoError(t, en.AppendString(msg[:i]))
		require.NoError(t, en.Append(wordbuf.FromString(msg[i:])))

		require.Equal(t, want, en.Sum(), "split at %d", i)
	}
}

func TestAppend_many_small_writes(t *testing.T) {
	t.Parallel()

	msg := strings.Repeat("0123456789", 70)

	en := hasher.New()
	for i := 0; i < len(msg); i += 3 {
		_, err := en.Write([]byte(msg[i:min(i+3, len(msg))]))
		require.NoError(t, err)
	}

	assert.Equal(t, uint64(len(msg)), en.Len())
	assert.Equal(t, sha256.Sum256([]byte(msg)), en.Sum())
}

func TestAppend_compresses_complete_blocks_eagerly(t *testing.T) {
	t.Parallel()

	en := hasher.New()
	require.NoError(t, en.AppendString(strings.Repeat("q", 130)))

	assert.Equal(t, 2, hasher.PendingLenForTest(en))
}

func TestNewRetaining_holds_blocks_until_finalize(t *testing.T) {
	t.Parallel()

	msg := strings.Repeat("r", 200)

	en := hasher.NewRetaining(1)
	require.NoError(t, en.AppendString(msg))

	assert.Equal(t, 200-2*hasher.BlockSize, hasher.PendingLenForTest(en))
	assert.Equal(t, sha256.Sum256([]byte(msg)), en.Sum())
}

func TestNewRetaining_negative_is_zero(t *testing.T) {
	t.Parallel()

	en := hasher.NewRetaining(-3)
	require.NoError(t, en.AppendString(strings.Repeat("n", 64)))

	assert.Zero(t, hasher.PendingLenForTest(en))
}

func TestAppend_after_finalize_fails(t *testing.T) {
	t.Parallel()

	en := hasher.New()
	require.NoError(t, en.AppendString("abc"))

	first := en.Finalize()

	require.ErrorIs(t, en.AppendString("more"), hasher.ErrFinalized)
	require.ErrorIs(t, en.Append(wordbuf.FromString("more")), hasher.ErrFinalized)

	n, err := en.Write([]byte("more"))
	require.ErrorIs(t, err, hasher.ErrFinalized)
	assert.Zero(t, n)

	assert.True(t, en.Finalized())
	assert.Equal(t, first, en.Finalize())
}

func TestAppend_nil_buffer_is_noop(t *testing.T) {
	t.Parallel()

	en := hasher.New()
	require.NoError(t, en.Append(nil))

	assert.Equal(t, sha256.Sum256(nil), en.Sum())
}

func TestClone_diverges_independently(t *testing.T) {
	t.Parallel()

	en := hasher.New()
	require.NoError(t, en.AppendString(strings.Repeat("c", 70)))

	cp := en.Clone()
	require.NoError(t, cp.AppendString("tail"))

	assert.Equal(
		t,
		sha256.Sum256([]byte(strings.Repeat("c", 70))),
		en.Sum(),
	)
	assert.Equal(
		t,
		sha256.Sum256([]byte(strings.Repeat("c", 70)+"tail")),
		cp.Sum(),
	)
}

func TestReset_reopens_engine(t *testing.T) {
	t.Parallel()

	en := hasher.New()
	require.NoError(t, en.AppendString("first"))
	en.Finalize()

	en.Reset()

	assert.False(t, en.Finalized())
	assert.Zero(t, en.Len())
	require.NoError(t, en.AppendString("abc"))
	assert.Equal(t, sha256.Sum256([]byte("abc")), en.Sum())
}

func TestSum256_matches_reference(t *testing.T) {
	t.Parallel()

	data := []byte("\x00\x01\x02 binary \xff\xfe payload")

	assert.Equal(t, sha256.Sum256(data), hasher.Sum256(data))
}

func TestEngine_concurrent_engines_do_not_interfere(t *testing.T) {
	t.Parallel()

	var wg sync.WaitGroup

	errs := make([]string, 32)

	for i := range errs {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			msg := strings.Repeat(string(rune('A'+i)), 100+i*37)

			for range 20 {
				if got := hasher.Digest(msg); got != reference(msg) {
					errs[i] = got

					return
				}
			}
		}(i)
	}

	wg.Wait()

	for i, e := range errs {
		assert.Empty(t, e, "worker %d", i)
	}
}

func FuzzAppend(f *testing.F) {
	f.Add("hello", "world")
	f.Add("", "")
	f.Add(strings.Repeat("a", 63), "bc")
	f.Add("\xff\x00", strings.Repeat("z", 130))

	f.Fuzz(func(t *testing.T, a, b string) {
		en := hasher.New()
		require.NoError(t, en.AppendString(a))
		require.NoError(t, en.AppendString(b))

		require.Equal(t, sha256.Sum256([]byte(a+b)), en.Sum())
	})
}

func BenchmarkDigest(b *testing.B) {
	for _, n := range []int{11, 64, 1024} {
		msg := strings.Repeat("m", n)

		b.Run(strconv.Itoa(n), func(b *testing.B) {
			b.SetBytes(int64(n))
			b.ReportAllocs()

			for b.Loop() {
				_ = hasher.Digest(msg)
			}
		})
	}
}

func BenchmarkStdlib(b *testing.B) {
	for _, n := range []int{11, 64, 1024} {
		msg := []byte(strings.Repeat("m", n))

		b.Run(strconv.Itoa(n), func(b *testing.B) {
			b.SetBytes(int64(n))
			b.ReportAllocs()

			for b.Loop() {
				sum := sha256.Sum256(msg)
				_ = base64.RawURLEncoding.EncodeToString(sum[:])
			}
		})
	}
}
