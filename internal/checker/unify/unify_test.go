package unify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/funvibe/funxy-typecheck/internal/checker/types"
)

// noAliases resolves nothing; these tests never go through a named Ref.
type noAliases struct{}

func (noAliases) ResolveRef(types.Ref) (types.Type, bool) { return nil, false }

func TestUnifyObjectAgainstIntersection(t *testing.T) {
	obj := types.Object{Elems: []types.ObjElem{
		{Kind: types.ElemProp, Name: "a", PropType: types.KeywordType{Keyword: types.Number}},
		{Kind: types.ElemProp, Name: "b", PropType: types.KeywordType{Keyword: types.String}},
	}}
	isect := types.Intersection{Types: []types.Type{
		types.Object{Elems: []types.ObjElem{{Kind: types.ElemProp, Name: "a", PropType: types.KeywordType{Keyword: types.Number}}}},
		types.Object{Elems: []types.ObjElem{{Kind: types.ElemProp, Name: "b", PropType: types.KeywordType{Keyword: types.String}}}},
	}}

	_, err := Unify(obj, isect, noAliases{})
	require.NoError(t, err)
}

func TestUnifyObjectAgainstIntersectionMissingMember(t *testing.T) {
	obj := types.Object{Elems: []types.ObjElem{
		{Kind: types.ElemProp, Name: "a", PropType: types.KeywordType{Keyword: types.Number}},
	}}
	isect := types.Intersection{Types: []types.Type{
		types.Object{Elems: []types.ObjElem{{Kind: types.ElemProp, Name: "a", PropType: types.KeywordType{Keyword: types.Number}}}},
		types.Object{Elems: []types.ObjElem{{Kind: types.ElemProp, Name: "b", PropType: types.KeywordType{Keyword: types.String}}}},
	}}

	_, err := Unify(obj, isect, noAliases{})
	require.Error(t, err)
}

func valueObjectType() types.Object {
	return types.Object{Elems: []types.ObjElem{
		{Kind: types.ElemProp, Name: "value", PropType: types.KeywordType{Keyword: types.Number}},
	}}
}

func TestExpandIndexedAccessOnObject(t *testing.T) {
	key := types.Lit{Kind: types.LitStr, Str: "value"}
	got, err := ExpandIndexedAccess(valueObjectType(), key, noAliases{})
	require.NoError(t, err)
	require.Equal(t, types.KeywordType{Keyword: types.Number}, got)
}

func TestUnifyIndexedAccessLeftExpandsBeforeComparing(t *testing.T) {
	ia := types.IndexedAccess{Object: valueObjectType(), Key: types.Lit{Kind: types.LitStr, Str: "value"}}
	_, err := Unify(ia, types.KeywordType{Keyword: types.Number}, noAliases{})
	require.NoError(t, err)
}

func TestUnifyIndexedAccessRightExpandsBeforeComparing(t *testing.T) {
	ia := types.IndexedAccess{Object: valueObjectType(), Key: types.Lit{Kind: types.LitStr, Str: "value"}}
	_, err := Unify(types.KeywordType{Keyword: types.Number}, ia, noAliases{})
	require.NoError(t, err)
}

func TestResolveToStructuralExpandsIndexedAccess(t *testing.T) {
	ia := types.IndexedAccess{Object: valueObjectType(), Key: types.Lit{Kind: types.LitStr, Str: "value"}}
	got := ResolveToStructural(ia, noAliases{})
	require.Equal(t, types.KeywordType{Keyword: types.Number}, got)
}
