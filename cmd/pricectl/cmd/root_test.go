package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-roti/internal/pricing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRoundCommand(t *testing.T) {
	out, err := run(t, "round", "25400", "25500", "25700", "26000")
	require.NoError(t, err)
	require.Equal(t, "25400 -> 25500\n25500 -> 25500\n25700 -> 26000\n26000 -> 26000\n", out)

	_, err = run(t, "round", "dua")
	require.Error(t, err)
}

func TestClassifyCommand(t *testing.T) {
	out, err := run(t, "classify", "93.75")
	require.NoError(t, err)
	require.Equal(t, "good (Bagus)\n", out)

	out, err = run(t, "classify", "--json", "150")
	require.NoError(t, err)
	require.JSONEq(t, `{"percentage":150,"band":"safe","label":"Aman"}`, out)
}

func TestDiscountCommand(t *testing.T) {
	out, err := run(t, "discount", "--json", "--price", "20000", "--cost", "8000", "--discount", "10%", "--fee", "15%", "--round")
	require.NoError(t, err)

	var res struct {
		Breakdown struct {
			AfterDiscount  int64 `json:"afterDiscount"`
			FeeAmount      int64 `json:"feeAmount"`
			BeforeRounding int64 `json:"beforeRounding"`
			Final          int64 `json:"final"`
		} `json:"breakdown"`
		Profit struct {
			Amount int64  `json:"amount"`
			Band   string `json:"band"`
		} `json:"profit"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Equal(t, int64(18000), res.Breakdown.AfterDiscount)
	require.Equal(t, int64(2700), res.Breakdown.FeeAmount)
	require.Equal(t, int64(15300), res.Breakdown.BeforeRounding)
	require.Equal(t, int64(15500), res.Breakdown.Final)
	require.Equal(t, int64(7500), res.Profit.Amount)
	require.Equal(t, "good", res.Profit.Band)
}

func TestDiscountCommandText(t *testing.T) {
	out, err := run(t, "discount", "--price", "20000", "--discount", "2000")
	require.NoError(t, err)
	require.Contains(t, out, "final")
	require.Contains(t, out, "18000")
	require.Contains(t, out, "Tidak Terdefinisi")

	_, err = run(t, "discount", "--price", "20000", "--markup", "7")
	require.Error(t, err)

	_, err = run(t, "discount", "--discount", "10%")
	require.Error(t, err)

	_, err = run(t, "discount", "--price", "18000", "--qty", "9223372036854775")
	require.ErrorIs(t, err, pricing.ErrAmountOutOfRange)
}

func TestRootCommandsDoNotShareFlags(t *testing.T) {
	first := NewRootCmd()
	var firstOut bytes.Buffer
	first.SetOut(&firstOut)
	first.SetArgs([]string{"classify", "--json", "150"})
	require.NoError(t, first.Execute())
	require.JSONEq(t, `{"percentage":150,"band":"safe","label":"Aman"}`, firstOut.String())

	second := NewRootCmd()
	var secondOut bytes.Buffer
	second.SetOut(&secondOut)
	second.SetArgs([]string{"classify", "150"})
	require.NoError(t, second.Execute())
	require.Equal(t, "safe (Aman)\n", secondOut.String())
}
