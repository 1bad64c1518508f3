// token emite un JWT firmado con JWT_SECRET para operar la API (no hay login: los operadores
// se gestionan fuera del sistema).
//
// Uso: go run ./cmd/token -user bodega-01 -role almacen [-exp 480]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/nexus-ledger/pkg/config"
	"github.com/jhoicas/nexus-ledger/pkg/jwt"
)

func main() {
	var (
		userID string
		role   string
		exp    int
	)
	flag.StringVar(&userID, "user", "", "Operador registrado como actor de los movimientos")
	flag.StringVar(&role, "role", jwt.RoleWarehouse, "Rol: admin, almacen o finanzas")
	flag.IntVar(&exp, "exp", 0, "Minutos de validez (por defecto JWT_EXPIRATION_MINUTES)")
	flag.Parse()

	switch role {
	case jwt.RoleAdmin, jwt.RoleWarehouse, jwt.RoleFinance:
	default:
		fmt.Fprintf(os.Stderr, "rol desconocido %q\n", role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if exp <= 0 {
		exp = cfg.JWT.Expiration
	}

	tok, err := jwt.Generate(cfg.JWT.Secret, userID, role, cfg.JWT.Issuer, exp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
