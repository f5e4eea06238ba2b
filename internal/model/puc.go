package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PUCAccount is one entry of a tenant's customized Plan Único de Cuentas.
// The set is bulk-replaced per owner on every PUC upload, never patched.
type PUCAccount struct {
	ID                 string    `json:"id"`
	OwnerID            string    `json:"owner_id"`
	Codigo             string    `json:"codigo"`
	Nombre             string    `json:"nombre"`
	Categoria          string    `json:"categoria"`
	Clase              string    `json:"clase"`
	RelacionCon        string    `json:"relacion_con"`
	ManejaVencimientos string    `json:"maneja_vencimientos"`
	DiferenciaFiscal   string    `json:"diferencia_fiscal"`
	Activo             string    `json:"activo"`
	NivelAgrupacion    string    `json:"nivel_agrupacion"`
	CreatedAt          time.Time `json:"created_at"`
}

// NewPUCAccount builds a PUC account with a generated id, trimming all
// user-provided text fields.
func NewPUCAccount(ownerID string, fields map[string]string) *PUCAccount {
	get := func(key string) string { return strings.TrimSpace(fields[key]) }

	return &PUCAccount{
		ID:                 uuid.NewString(),
		OwnerID:            ownerID,
		Codigo:             get("codigo"),
		Nombre:             get("nombre"),
		Categoria:          get("categoria"),
		Clase:              get("clase"),
		RelacionCon:        get("relacion_con"),
		ManejaVencimientos: get("maneja_vencimientos"),
		DiferenciaFiscal:   get("diferencia_fiscal"),
		Activo:             get("activo"),
		NivelAgrupacion:    get("nivel_agrupacion"),
		CreatedAt:          time.Now().UTC(),
	}
}
