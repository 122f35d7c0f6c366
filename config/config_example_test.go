// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"fmt"
	"strings"
)

func ExampleRead() {
	m, err := Read(
		FromYaml(strings.NewReader(`hello: world`)),
		FromYaml(strings.NewReader(`hello: bob`)),
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	var cfg struct {
		Hello string `config:"hello"`
	}
	err = m.Unmarshal(&cfg)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(cfg.Hello)
	//Output: bob
}

func ExampleRenderTextTemplate() {
	r := RenderTextTemplate(
		strings.NewReader(`hello: {{name}}`),
		TemplateFunc("name", func() string {
			return "bob"
		}),
	)

	m, err := Read(FromYaml(r))
	if err != nil {
		fmt.Println(err)
		return
	}

	var cfg struct {
		Hello string `config:"hello"`
	}
	err = m.Unmarshal(&cfg)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(cfg.Hello)
	//Output: bob
}
