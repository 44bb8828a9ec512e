package cmd

import (
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"inventory.GO/config"
	inventoryRepo "inventory.GO/model/repository/inventory"
)

var lowStockCmd = &cobra.Command{
	Use:   "stock:low",
	Short: "Print all records at or below their low-stock threshold",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := config.NewDB()
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		repo := inventoryRepo.NewStockRepository(db)
		recs, err := repo.LowStock()
		if err != nil {
			log.Fatalf("low stock query: %v", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tON HAND\tRESERVED\tAVAILABLE\tTHRESHOLD")
		for _, rec := range recs {
			fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\n",
				rec.RecordID, rec.Name, rec.QuantityOnHand, rec.ReservedQuantity, rec.Available(), rec.Threshold)
		}
		w.Flush()
		fmt.Printf("%d record(s)\n", len(recs))
	},
}

func init() {
	rootCmd.AddCommand(lowStockCmd)
}
