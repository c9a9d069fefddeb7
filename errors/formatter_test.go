package errors

import (
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/culso/Eqonomize/ledger"
	"github.com/culso/Eqonomize/loader"
	"github.com/culso/Eqonomize/tree"
)

func document(t *testing.T) *tree.Node {
	t.Helper()
	root, err := tree.Unmarshal([]byte(`<budget>
	<account id="1" type="assets" name="Checking"/>
	<transaction type="expense" date="2024-01-05" cost="5.00" category="99" from="1"/>
</budget>`))
	assert.NoError(t, err)
	return root
}

func droppedExpense() error {
	return &loader.DroppedError{
		Tag:   "transaction",
		Index: 1,
		Err:   &ledger.UnresolvedReferenceError{Record: "expense", Attr: "category", ID: "99", Kind: "expenses"},
	}
}

func TestTextFormatter_Format(t *testing.T) {
	tests := []struct {
		name string
		opts []TextFormatterOption
		err  error
		want string
	}{
		{
			name: "plain error",
			err:  stderrors.New("boom"),
			want: "boom",
		},
		{
			name: "record without document",
			err:  droppedExpense(),
			want: `transaction #1: expense: unknown expenses id "99" in "category"`,
		},
		{
			name: "record with document",
			opts: []TextFormatterOption{WithDocument(document(t))},
			err:  droppedExpense(),
			want: `transaction #1: expense: unknown expenses id "99" in "category"

   <transaction type="expense" date="2024-01-05" cost="5.00" category="99" from="1"></transaction>
`,
		},
		{
			name: "index outside document",
			opts: []TextFormatterOption{WithDocument(document(t))},
			err:  &loader.DroppedError{Tag: "split", Index: 7, Err: stderrors.New("bad")},
			want: "split #7: bad",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewTextFormatter(tt.opts...).Format(tt.err))
		})
	}
}

func TestTextFormatter_FormatAll(t *testing.T) {
	tf := NewTextFormatter(WithDocument(document(t)))
	assert.Equal(t, "", tf.FormatAll(nil))

	out := tf.FormatAll([]error{droppedExpense(), stderrors.New("second")})
	assert.Equal(t, `transaction #1: expense: unknown expenses id "99" in "category"

   <transaction type="expense" date="2024-01-05" cost="5.00" category="99" from="1"></transaction>

second`, out)
}

func TestJSONFormatter_Format(t *testing.T) {
	jf := NewJSONFormatter()

	var got ErrorJSON
	assert.NoError(t, json.Unmarshal([]byte(jf.Format(droppedExpense())), &got))
	assert.Equal(t, ErrorJSON{
		Type:    "*ledger.UnresolvedReferenceError",
		Message: `transaction #1: expense: unknown expenses id "99" in "category"`,
		Record:  &RecordJSON{Tag: "transaction", Index: 1},
		Details: map[string]string{"record": "expense", "attr": "category", "id": "99"},
	}, got)

	assert.Equal(t, `{"type":"*errors.errorString","message":"boom"}`, jf.Format(stderrors.New("boom")))
}

func TestJSONFormatter_FormatAll(t *testing.T) {
	jf := NewJSONFormatter()
	assert.Equal(t, "[]", jf.FormatAll(nil))

	child := &ledger.ChildError{Parent: "split", Index: 0, Err: &ledger.UnknownTypeError{Element: "transaction", Type: "loan"}}
	errs := []error{
		droppedExpense(),
		&loader.DroppedError{Tag: "split", Index: 4, Err: child},
	}
	slice := jf.FormatAllToSlice(errs)
	assert.Equal(t, 2, len(slice))
	assert.Equal(t, "*ledger.UnknownTypeError", slice[1].Type)
	assert.Equal(t, map[string]string{"type": "loan"}, slice[1].Details)

	var decoded []ErrorJSON
	assert.NoError(t, json.Unmarshal([]byte(jf.FormatAll(errs)), &decoded))
	assert.Equal(t, slice, decoded)
}
