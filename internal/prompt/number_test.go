package prompt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpokenWon(t *testing.T) {
	cases := map[int64]string{
		0:             "영 원",
		1:             "일 원",
		10:            "십 원",
		1000:          "천 원",
		10000:         "만 원",
		12000:         "만 이천 원",
		3500000:       "삼백오십만 원",
		11110000:      "천백십일만 원",
		100000000:     "일억 원",
		120000000:     "일억 이천만 원",
		1000000000000: "일조 원",
		-50000:        "마이너스 오만 원",
	}
	for in, want := range cases {
		require.Equal(t, want, SpokenWon(in), "amount %d", in)
	}
}

func TestFormatNumber(t *testing.T) {
	require.Equal(t, "0", formatNumber(0))
	require.Equal(t, "1,234,567", formatNumber(1234567))
	require.Equal(t, "4.5", formatNumber(4.5))
	require.Equal(t, "-3,000", formatNumber(-3000))
}

func TestWonLines(t *testing.T) {
	require.Equal(t, "0원", wonLine(0))
	require.Equal(t, "50,000원 (오만 원)", wonLine(50000))
	require.Equal(t, "0만원", manwonLine(0))
	require.Equal(t, "350만원 (삼백오십만 원)", manwonLine(350))
}
