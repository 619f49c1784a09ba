// Copyright 2025 The ragxiv Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"fmt"
	"sort"
)

// Query is a named extraction task. Retrieval is the text embedded to
// rank chunks by relevance; Template is the prompt filled with the
// retrieved chunks. Structured queries answer with a JSON method list.
type Query struct {
	Name       string
	Retrieval  string
	Template   string
	Structured bool
}

// Prompt builds the generation prompt from the retrieved text.
func (q Query) Prompt(text string) string {
	return fmt.Sprintf(q.Template, text)
}

const methodsRetrievalQuery = "Identify all mentions of scientific methods used in this text, " +
	"especially those relevant to Condensed Matter Physics. Look for full names " +
	"(e.g., Density Functional Theory, Quantum Monte Carlo, Wannierization) and abbreviations " +
	"(e.g., DFT, QMC, DMFT, ARPES). Include any experimental, computational, or numerical techniques."

const materialRetrievalQuery = "Identify all mentions of the system simulated in the text. " +
	"This can be a toy model, for example, square lattice, honeycomb lattice, etc., " +
	"or a real material with a chemical formula."

const materialTemplate = `You are a Condensed Matter Physics assistant.

Given the following scientific text, your task is to identify if the simulated system is a real material or a toy model.
Look for mentions of chemical formulas, specific names of models (like "square lattice" or "honeycomb lattice"), or
any other indication that the system is a material or a model.

If the text describes a real material, return the chemical name or formula of the material (or materials) as a string. If it describes a toy model, return "model".

Important instructions: only return the strings asked for, without any additional text, explanation, or thinking block.

Example 1:
    - Input text: The system is a bulk crystal of silicon, which has a diamond cubic structure.
    - Answer: "Si2"

Example 2:
    - Input text: The square lattice model is used to simulate the behavior of electrons in a simplified system.
    - Answer: "model"

Example 3:
    - Input text: We study the electronic properties of graphene, a two-dimensional material with a honeycomb lattice structure.
    - Answer: "graphene" or "C"

Text:
%s
`

const expOrCompTemplate = `You are a Condensed Matter Physics assistant.

Given the following scientific text, determine if it describes an **experimental** or **computational** method.
If it describes an experimental method, return "experimental". If it describes a computational method, return "computational".
If it describes both, return "both". If it describes neither, return "none".

Example 1:
    - Input text: We use Density Functional Theory (DFT) to calculate the electronic structure of the material.
    - Answer: computational

Example 2:
    - Input text: We conducted Angle Resolved Photoemission Spectroscopy (ARPES) with the following parameters.
    - Answer: experimental

Text:
%s
`

const extractMethodsTemplate = `You are a structured data extractor.

Extract a list of experimental and computational methods mentioned in the following scientific text.
Each method should include:
- A full name (e.g., "Density Functional Theory")
- An acronym if available (e.g., "DFT")

Important instruction: only return the list of dictionaries, do not include any other explanation or extra text.

Example 1:
    - Input text: We use Density Functional Theory (DFT) to calculate the electronic structure of the material. We
    also performed Angle Resolved Photoemission Spectroscopy (ARPES) to study the surface states.
    - Answer: [
        { "name": "Density Functional Theory", "acronym": "DFT" },
        { "name": "Angle Resolved Photoemission Spectroscopy", "acronym": "ARPES" }
    ]

Example 2:
    - Input text: We performed ladder DΓA calculations on top of the DMFT solution. The DMFT self-energy was calculated using the CTQMC method.
    - Answer: [
        { "name": "Ladder DΓA", "acronym": "Ladder DΓA" },
        { "name": "Dynamical Mean Field Theory", "acronym": "DMFT" },
        { "name": "Continuous-Time Quantum Monte Carlo", "acronym": "CTQMC" }
    ]

Text:
%s
`

const filterMethodsTemplate = `You are a Condensed Matter Physics assistant.

Given the following list of extracted candidates, filter out any that are **not actual methods**
but instead are **software packages, code implementations, or libraries**.

Return only the list of method dictionaries. Do not include any explanation or extra text.

Input:
%s
`

// Well-known query names.
const (
	QueryMaterial      = "material"
	QueryExpOrComp     = "exp_or_comp"
	QueryMethods       = "methods"
	QueryFilterMethods = "filter_methods"
)

var queries = map[string]Query{
	QueryMaterial: {
		Name:      QueryMaterial,
		Retrieval: materialRetrievalQuery,
		Template:  materialTemplate,
	},
	QueryExpOrComp: {
		Name:      QueryExpOrComp,
		Retrieval: methodsRetrievalQuery,
		Template:  expOrCompTemplate,
	},
	QueryMethods: {
		Name:       QueryMethods,
		Retrieval:  methodsRetrievalQuery,
		Template:   extractMethodsTemplate,
		Structured: true,
	},
	QueryFilterMethods: {
		Name:       QueryFilterMethods,
		Retrieval:  methodsRetrievalQuery,
		Template:   filterMethodsTemplate,
		Structured: true,
	},
}

// LookupQuery returns the registered query with the given name.
func LookupQuery(name string) (Query, error) {
	q, ok := queries[name]
	if !ok {
		return Query{}, fmt.Errorf("unknown query %q (available: %v)", name, QueryNames())
	}
	return q, nil
}

// QueryNames returns the registered query names, sorted.
func QueryNames() []string {
	names := make([]string, 0, len(queries))
	for name := range queries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
