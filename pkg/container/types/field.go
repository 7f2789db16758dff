// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package types

import "fmt"

// Field is a named column declaration of a block schema.
type Field struct {
	Name string
	Typ  Type
}

func NewField(name string, typ Type) Field {
	return Field{Name: name, Typ: typ}
}

func (f Field) IsNullable() bool {
	return f.Typ.Nullable
}

func (f Field) Eq(o Field) bool {
	return f.Name == o.Name && f.Typ.Eq(o.Typ)
}

func (f Field) String() string {
	return fmt.Sprintf("%s %s", f.Name, f.Typ)
}
