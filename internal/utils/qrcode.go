package utils

import (
	"encoding/base64"

	"github.com/skip2/go-qrcode"
)

// OrderQR encode le lien de suivi d'une commande en PNG
func OrderQR(link string) ([]byte, error) {
	return qrcode.Encode(link, qrcode.Medium, 256)
}

// QRDataURI retourne le PNG prêt à mettre dans <img src="...">
func QRDataURI(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
